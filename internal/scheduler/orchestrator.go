// Package scheduler ties the participant directory, the interview store and
// the meeting-booking client together.
package scheduler

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/qiniu/x/xlog"

	"interview-scheduler/internal/calendar"
	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/repo"
)

type Participants interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	PickRandomPair(ctx context.Context) (domain.User, domain.User, error)
}

type MeetingBooker interface {
	BookMeeting(ctx context.Context, in *domain.Interview, scheduledTime time.Time) (*domain.Meeting, error)
}

const (
	testInterviewTitle       = "Test Interview"
	testInterviewDescription = "This is a test interview for email functionality"
	testMeetingLink          = "https://meet.google.com/test-meet-id"
)

type Orchestrator struct {
	participants Participants
	interviews   repo.InterviewStore
	meetings     repo.MeetingStore
	booker       MeetingBooker
	notifier     calendar.Notifier

	now func() time.Time
	xl  *xlog.Logger
}

func NewOrchestrator(participants Participants, interviews repo.InterviewStore, meetings repo.MeetingStore, booker MeetingBooker, notifier calendar.Notifier) *Orchestrator {
	return &Orchestrator{
		participants: participants,
		interviews:   interviews,
		meetings:     meetings,
		booker:       booker,
		notifier:     notifier,
		now:          time.Now,
		xl:           xlog.New("scheduler"),
	}
}

// InterviewRequest carries the caller supplied fields of a new interview.
type InterviewRequest struct {
	InterviewerID int64
	IntervieweeID int64
	Title         string
	Description   string
	ScheduledTime time.Time
}

func (r *InterviewRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r InterviewRequest) validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.InterviewerID, validation.Required),
		validation.Field(&r.IntervieweeID, validation.Required,
			validation.NotIn(r.InterviewerID).Error("must differ from the interviewer")),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.ScheduledTime, validation.Required),
	)
	if err != nil {
		return domain.InvalidArgument("%v", err)
	}
	return nil
}

func validateDetails(title, description string, at time.Time) error {
	err := validation.Errors{
		"title":         validation.Validate(title, validation.Required),
		"description":   validation.Validate(description, validation.Required),
		"scheduledTime": validation.Validate(at, validation.Required),
	}.Filter()
	if err != nil {
		return domain.InvalidArgument("%v", err)
	}
	return nil
}

// CreateInterview persists an interview between two registered users
// without booking a meeting for it.
func (o *Orchestrator) CreateInterview(ctx context.Context, req InterviewRequest) (*domain.Interview, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}
	interviewer, err := o.participants.Get(ctx, req.InterviewerID)
	if err != nil {
		return nil, err
	}
	interviewee, err := o.participants.Get(ctx, req.IntervieweeID)
	if err != nil {
		return nil, err
	}
	return o.saveInterview(ctx, interviewer, interviewee, req.Title, req.Description, req.ScheduledTime)
}

func (o *Orchestrator) saveInterview(ctx context.Context, interviewer, interviewee *domain.User, title, description string, at time.Time) (*domain.Interview, error) {
	in, err := o.interviews.Save(ctx, &domain.Interview{
		Title:         title,
		Description:   description,
		ScheduledTime: at,
		Interviewer:   interviewer,
		Interviewee:   interviewee,
		Status:        domain.StatusScheduled,
	})
	if err != nil {
		o.xl.Errorf("save interview %q: %v", title, err)
		return nil, err
	}
	o.xl.Infof("saved interview %d %q between %d and %d", in.ID, in.Title, interviewer.ID, interviewee.ID)
	return in, nil
}

// ScheduleInterview creates the interview and books a meeting for it. When
// booking fails the interview stays in the store and the booking error is
// returned.
func (o *Orchestrator) ScheduleInterview(ctx context.Context, interviewerID, intervieweeID int64, title, description string, at time.Time) (*domain.Meeting, error) {
	in, err := o.CreateInterview(ctx, InterviewRequest{
		InterviewerID: interviewerID,
		IntervieweeID: intervieweeID,
		Title:         title,
		Description:   description,
		ScheduledTime: at,
	})
	if err != nil {
		return nil, err
	}
	return o.book(ctx, in, at)
}

// ScheduleRandomInterview is ScheduleInterview with a randomly drawn pair:
// the first user drawn interviews the second.
func (o *Orchestrator) ScheduleRandomInterview(ctx context.Context, title, description string, at time.Time) (*domain.Meeting, error) {
	title, description = strings.TrimSpace(title), strings.TrimSpace(description)
	if err := validateDetails(title, description, at); err != nil {
		return nil, err
	}
	interviewer, interviewee, err := o.participants.PickRandomPair(ctx)
	if err != nil {
		return nil, err
	}
	in, err := o.saveInterview(ctx, &interviewer, &interviewee, title, description, at)
	if err != nil {
		return nil, err
	}
	return o.book(ctx, in, at)
}

func (o *Orchestrator) book(ctx context.Context, in *domain.Interview, at time.Time) (*domain.Meeting, error) {
	m, err := o.booker.BookMeeting(ctx, in, at)
	if err != nil {
		o.xl.Warnf("interview %d saved but booking failed: %v", in.ID, err)
		return nil, err
	}
	return m, nil
}

// UpdateInterviewStatus moves a SCHEDULED interview to COMPLETED or
// CANCELLED. The latest meeting of the interview follows along.
func (o *Orchestrator) UpdateInterviewStatus(ctx context.Context, id int64, status domain.Status) (*domain.Interview, error) {
	if status != domain.StatusCompleted && status != domain.StatusCancelled {
		return nil, domain.InvalidArgument("status must be %s or %s", domain.StatusCompleted, domain.StatusCancelled)
	}
	in, err := o.interviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status == status {
		return in, nil
	}
	if in.Status != domain.StatusScheduled {
		return nil, domain.InvalidArgument("interview %d is already %s", id, in.Status)
	}
	if err := o.interviews.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	if m, err := o.meetings.FindByInterview(ctx, id); err == nil && m.Status == domain.StatusScheduled {
		if err := o.meetings.UpdateStatus(ctx, m.ID, status); err != nil {
			o.xl.Warnf("update meeting %d of interview %d: %v", m.ID, id, err)
		}
	}
	o.xl.Infof("interview %d is now %s", id, status)
	in.Status = status
	return in, nil
}

// MeetingFor returns the latest meeting booked for the interview.
func (o *Orchestrator) MeetingFor(ctx context.Context, interviewID int64) (*domain.Meeting, error) {
	if _, err := o.interviews.FindByID(ctx, interviewID); err != nil {
		return nil, err
	}
	return o.meetings.FindByInterview(ctx, interviewID)
}

// SendTestInvite persists a test interview one day ahead between the first
// two registered users and mails an invite with a placeholder link. No
// calendar event is booked.
func (o *Orchestrator) SendTestInvite(ctx context.Context) (*domain.Interview, error) {
	users, err := o.participants.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) < 2 {
		return nil, domain.ErrInsufficientParticipants
	}
	interviewer, interviewee := users[0], users[1]
	at := o.now().Add(24 * time.Hour)

	in, err := o.saveInterview(ctx, &interviewer, &interviewee, testInterviewTitle, testInterviewDescription, at)
	if err != nil {
		return nil, err
	}
	if o.notifier != nil {
		m := &domain.Meeting{
			JoinLink:      testMeetingLink,
			ScheduledTime: at,
			Interview:     in,
			Status:        domain.StatusScheduled,
		}
		o.notifier.SendInvite(ctx, in, m, []*domain.User{in.Interviewer, in.Interviewee})
	}
	return in, nil
}
