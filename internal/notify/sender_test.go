package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-ical"

	"interview-scheduler/internal/domain"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
	boom bool
}

func (c *captureMailer) Send(_ context.Context, msg Message) error {
	if c.boom {
		panic("smtp exploded")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return c.err
}

func fixture() (*domain.Interview, *domain.Meeting, []*domain.User) {
	alice := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	bob := &domain.User{ID: 2, Username: "bob", Email: "bob@example.com"}
	at := time.Date(2030, 1, 7, 15, 4, 0, 0, time.UTC)
	in := &domain.Interview{
		ID:            10,
		Title:         "Tech Screen",
		Description:   "Go <fundamentals>",
		ScheduledTime: at,
		Interviewer:   alice,
		Interviewee:   bob,
		Status:        domain.StatusScheduled,
	}
	m := &domain.Meeting{
		ID:            20,
		JoinLink:      "https://meet.google.com/abc-defg-hij",
		EventID:       "evt1",
		ScheduledTime: at,
		Interview:     in,
		Status:        domain.StatusScheduled,
	}
	return in, m, []*domain.User{alice, bob}
}

func TestSendInviteSentinelFromSendsNothing(t *testing.T) {
	for _, from := range []string{"", DefaultFromAddress} {
		mailer := &captureMailer{}
		s := NewSender(mailer, from, []string{"alice@example.com", "bob@example.com"})
		in, m, att := fixture()
		s.SendInvite(context.Background(), in, m, att)
		if len(mailer.sent) != 0 {
			t.Fatalf("from %q: sent %d messages", from, len(mailer.sent))
		}
	}
}

func TestSendInviteAllowList(t *testing.T) {
	mailer := &captureMailer{}
	s := NewSender(mailer, "scheduler@example.com", []string{" ALICE@example.com "})
	in, m, att := fixture()
	s.SendInvite(context.Background(), in, m, att)

	if len(mailer.sent) != 1 {
		t.Fatalf("want 1 message, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if len(msg.To) != 1 || msg.To[0] != "alice@example.com" {
		t.Fatalf("unexpected recipients: %v", msg.To)
	}
	if msg.From != "scheduler@example.com" {
		t.Fatalf("from = %q", msg.From)
	}
	if msg.Subject != "Calendar Invite: Tech Screen" {
		t.Fatalf("subject = %q", msg.Subject)
	}
}

func TestSendInviteNoEligibleRecipients(t *testing.T) {
	mailer := &captureMailer{}
	s := NewSender(mailer, "scheduler@example.com", nil)
	in, m, att := fixture()
	att = append(att, nil, &domain.User{ID: 3, Username: "noemail"})
	s.SendInvite(context.Background(), in, m, att)
	if len(mailer.sent) != 0 {
		t.Fatalf("sent %d messages", len(mailer.sent))
	}
}

func TestSendInviteBody(t *testing.T) {
	mailer := &captureMailer{}
	s := NewSender(mailer, "scheduler@example.com", []string{"alice@example.com", "bob@example.com"})
	in, m, att := fixture()
	s.SendInvite(context.Background(), in, m, att)
	if len(mailer.sent) != 1 {
		t.Fatalf("want 1 message, got %d", len(mailer.sent))
	}
	body := mailer.sent[0].HTMLBody
	for _, want := range []string{
		"Tech Screen",
		"Go &lt;fundamentals&gt;",
		"Monday, January 7, 2030 at 3:04 PM",
		"https://meet.google.com/abc-defg-hij",
		"alice (alice@example.com)",
		"bob (bob@example.com)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestSendInviteAttachesCalendar(t *testing.T) {
	mailer := &captureMailer{}
	s := NewSender(mailer, "scheduler@example.com", []string{"alice@example.com", "bob@example.com"})
	in, m, att := fixture()
	s.SendInvite(context.Background(), in, m, att)

	msg := mailer.sent[0]
	if len(msg.Attachments) != 1 || msg.Attachments[0].Name != "invite.ics" {
		t.Fatalf("unexpected attachments: %+v", msg.Attachments)
	}
	cal, err := ical.NewDecoder(bytes.NewReader(msg.Attachments[0].Data)).Decode()
	if err != nil {
		t.Fatalf("decode ics: %v", err)
	}
	if method := cal.Props.Get(ical.PropMethod); method == nil || method.Value != "REQUEST" {
		t.Fatalf("method = %+v", method)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("want 1 event, got %d", len(events))
	}
	ev := events[0]
	if got := ev.Props.Get(ical.PropSummary); got == nil || got.Value != "Tech Screen" {
		t.Fatalf("summary = %+v", got)
	}
	start, err := ev.DateTimeStart(time.UTC)
	if err != nil || !start.Equal(m.ScheduledTime) {
		t.Fatalf("start = %v, %v", start, err)
	}
	end, err := ev.DateTimeEnd(time.UTC)
	if err != nil || !end.Equal(m.ScheduledTime.Add(time.Hour)) {
		t.Fatalf("end = %v, %v", end, err)
	}
	if n := len(ev.Props.Values(ical.PropAttendee)); n != 2 {
		t.Fatalf("want 2 attendees, got %d", n)
	}
}

func TestSendInviteSwallowsMailerFailures(t *testing.T) {
	in, m, att := fixture()

	failing := &captureMailer{err: errors.New("connection refused")}
	NewSender(failing, "scheduler@example.com", []string{"alice@example.com"}).
		SendInvite(context.Background(), in, m, att)
	if len(failing.sent) != 1 {
		t.Fatalf("mailer not called")
	}

	panicking := &captureMailer{boom: true}
	NewSender(panicking, "scheduler@example.com", []string{"alice@example.com"}).
		SendInvite(context.Background(), in, m, att)
}

func TestSendInviteNilInputs(t *testing.T) {
	mailer := &captureMailer{}
	s := NewSender(mailer, "scheduler@example.com", []string{"alice@example.com"})
	_, m, att := fixture()
	s.SendInvite(context.Background(), nil, m, att)
	if len(mailer.sent) != 0 {
		t.Fatalf("sent %d messages", len(mailer.sent))
	}
}
