// Package notify emails calendar invites for booked meetings.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/qiniu/x/xlog"

	"interview-scheduler/internal/domain"
)

// DefaultFromAddress is the placeholder sender shipped in sample configs.
// While it is in place no mail is sent.
const DefaultFromAddress = "your-email@gmail.com"

type Sender struct {
	mailer  Mailer
	from    string
	allowed map[string]struct{}
	now     func() time.Time
	xl      *xlog.Logger
}

// NewSender builds a Sender that only mails addresses on allowList.
func NewSender(mailer Mailer, from string, allowList []string) *Sender {
	allowed := make(map[string]struct{}, len(allowList))
	for _, a := range allowList {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			allowed[a] = struct{}{}
		}
	}
	return &Sender{
		mailer:  mailer,
		from:    strings.TrimSpace(from),
		allowed: allowed,
		now:     time.Now,
		xl:      xlog.New("notify"),
	}
}

func (s *Sender) Configured() bool {
	return s.from != "" && s.from != DefaultFromAddress
}

func (s *Sender) eligible(u *domain.User) bool {
	if u == nil || strings.TrimSpace(u.Email) == "" {
		return false
	}
	_, ok := s.allowed[strings.ToLower(strings.TrimSpace(u.Email))]
	return ok
}

// SendInvite mails the invite to every allow-listed attendee in a single
// message. It never reports failure to the caller: every problem is logged.
func (s *Sender) SendInvite(ctx context.Context, in *domain.Interview, m *domain.Meeting, attendees []*domain.User) {
	defer func() {
		if r := recover(); r != nil {
			s.xl.Errorf("Unexpected error while sending calendar invite: %v", r)
		}
	}()
	if in == nil || m == nil {
		s.xl.Warnf("SendInvite called without interview or meeting")
		return
	}
	s.xl.Infof("Preparing to send calendar invite for interview: %s", in.Title)

	if !s.Configured() {
		s.xl.Warnf("Email configuration is using default values. Emails will not be sent.")
		return
	}

	var to []string
	for _, a := range attendees {
		if !s.eligible(a) {
			if a != nil {
				s.xl.Infof("Skipping recipient %q as they are not eligible for invites", a.Email)
			}
			continue
		}
		to = append(to, a.Email)
		s.xl.Infof("Added recipient: %s", a.Email)
	}
	if len(to) == 0 {
		s.xl.Info("No eligible recipients, invite not sent")
		return
	}

	body, err := renderInvite(in, m, attendees)
	if err != nil {
		s.xl.Errorf("Failed to render calendar invite: %v", err)
		return
	}
	msg := Message{
		From:     s.from,
		To:       to,
		Subject:  "Calendar Invite: " + in.Title,
		HTMLBody: body,
	}
	if ics, err := buildICS(in, m, s.from, to, s.now()); err != nil {
		s.xl.Warnf("Sending invite without calendar attachment: %v", err)
	} else {
		msg.Attachments = append(msg.Attachments, Attachment{
			Name:        "invite.ics",
			ContentType: "text/calendar; charset=UTF-8; method=REQUEST",
			Data:        ics,
		})
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.xl.Errorf("Failed to send calendar invite: %v", err)
		return
	}
	s.xl.Info("Calendar invite sent successfully")
}
