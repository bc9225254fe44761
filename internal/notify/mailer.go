package notify

import (
	"bytes"
	"context"
	"time"

	mail "gopkg.in/mail.v2"
)

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	From        string
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer is the mail transport boundary.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

type SMTPMailer struct {
	dialer *mail.Dialer
}

func NewSMTPMailer(c SMTPConfig) *SMTPMailer {
	d := mail.NewDialer(c.Host, c.Port, c.Username, c.Password)
	if c.Timeout > 0 {
		d.Timeout = c.Timeout
	}
	return &SMTPMailer{dialer: d}
}

func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := mail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	for _, a := range msg.Attachments {
		m.AttachReader(a.Name, bytes.NewReader(a.Data), mail.SetHeader(map[string][]string{
			"Content-Type": {a.ContentType},
		}))
	}
	return s.dialer.DialAndSend(m)
}
