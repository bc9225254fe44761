package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/qiniu/x/xlog"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/repo"
)

type CredentialSource interface {
	EnsureAuthorized(ctx context.Context) (*oauth2.Token, error)
}

// Notifier is fire-and-forget: it reports nothing back and must absorb its
// own failures.
type Notifier interface {
	SendInvite(ctx context.Context, in *domain.Interview, m *domain.Meeting, attendees []*domain.User)
}

const DefaultRequestTimeout = 15 * time.Second

type Booker struct {
	auth     CredentialSource
	provider Provider
	meetings repo.MeetingStore
	notifier Notifier
	timeout  time.Duration

	newRequestID func() string
	xl           *xlog.Logger
}

func NewBooker(auth CredentialSource, provider Provider, meetings repo.MeetingStore, notifier Notifier, timeout time.Duration) *Booker {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Booker{
		auth:         auth,
		provider:     provider,
		meetings:     meetings,
		notifier:     notifier,
		timeout:      timeout,
		newRequestID: uuid.NewString,
		xl:           xlog.New("booker"),
	}
}

// BookMeeting creates a one hour calendar event with a generated join link
// for the interview, persists the resulting Meeting and then notifies the
// participants. Nothing is persisted unless the provider returned a link.
func (b *Booker) BookMeeting(ctx context.Context, in *domain.Interview, scheduledTime time.Time) (*domain.Meeting, error) {
	if in == nil {
		b.xl.Error("Interview object is nil")
		return nil, domain.InvalidArgument("interview cannot be nil")
	}
	if scheduledTime.IsZero() {
		b.xl.Error("Scheduled time is zero")
		return nil, domain.InvalidArgument("scheduled time cannot be empty")
	}
	if in.ID == 0 {
		return nil, domain.InvalidArgument("interview must be persisted before booking")
	}
	if in.Interviewer == nil || in.Interviewee == nil {
		return nil, domain.InvalidArgument("interview participants are required")
	}
	b.xl.Infof("Scheduling meeting for interview %d: %s", in.ID, in.Title)

	tok, err := b.auth.EnsureAuthorized(ctx)
	if err != nil {
		return nil, err
	}

	req := EventRequest{
		Summary:             in.Title,
		Description:         in.Description,
		Start:               scheduledTime,
		End:                 scheduledTime.Add(domain.MeetingDuration),
		ConferenceRequestID: b.newRequestID(),
	}
	for _, u := range in.Participants() {
		if u.Email != "" {
			req.Attendees = append(req.Attendees, u.Email)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	created, err := b.provider.InsertEvent(callCtx, tok, req)
	cancel()
	if err != nil {
		b.xl.Errorf("Failed to create calendar event for interview %d: %v", in.ID, err)
		return nil, &domain.BookingFailedError{Reason: "provider call failed", Err: err}
	}
	if created == nil || created.JoinLink == "" {
		b.xl.Errorf("Failed to get join link from event for interview %d", in.ID)
		return nil, &domain.BookingFailedError{Reason: "provider returned no join link"}
	}
	b.xl.Infof("Created calendar event %s with link %s", created.EventID, created.JoinLink)

	meeting, err := b.meetings.Save(ctx, &domain.Meeting{
		JoinLink:      created.JoinLink,
		EventID:       created.EventID,
		ScheduledTime: scheduledTime,
		Interview:     in,
		Status:        domain.StatusScheduled,
	})
	if err != nil {
		b.xl.Errorf("Failed to save meeting for interview %d: %v", in.ID, err)
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, &domain.BookingFailedError{Reason: "persist meeting", Err: err}
	}
	b.xl.Infof("Saved meeting %d", meeting.ID)

	b.notify(ctx, in, meeting)
	return meeting, nil
}

func (b *Booker) notify(ctx context.Context, in *domain.Interview, m *domain.Meeting) {
	if b.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.xl.Errorf("Failed to send calendar invite for meeting %d: %v", m.ID, r)
		}
	}()
	attendees := []*domain.User{in.Interviewer, in.Interviewee}
	b.xl.Infof("Sending calendar invite to %d attendees", len(attendees))
	b.notifier.SendInvite(ctx, in, m, attendees)
}
