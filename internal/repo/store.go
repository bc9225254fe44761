package repo

import (
	"context"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"interview-scheduler/internal/domain"
)

type UserStore interface {
	// Create fails with domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type InterviewStore interface {
	// Save inserts when ID is zero and updates otherwise. An empty status
	// is stored as SCHEDULED.
	Save(ctx context.Context, in *domain.Interview) (*domain.Interview, error)
	FindAll(ctx context.Context) ([]domain.Interview, error)
	FindByID(ctx context.Context, id int64) (*domain.Interview, error)
	FindByParticipant(ctx context.Context, userID int64) ([]domain.Interview, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	// ListDue returns SCHEDULED interviews that started before startedBefore.
	ListDue(ctx context.Context, startedBefore time.Time) ([]domain.Interview, error)
}

type MeetingStore interface {
	Save(ctx context.Context, m *domain.Meeting) (*domain.Meeting, error)
	FindAll(ctx context.Context) ([]domain.Meeting, error)
	// FindByInterview returns the most recent meeting booked for the interview.
	FindByInterview(ctx context.Context, interviewID int64) (*domain.Meeting, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	ListDue(ctx context.Context, startedBefore time.Time) ([]domain.Meeting, error)
}

// TokenStore keeps OAuth2 credentials keyed by a principal label.
type TokenStore interface {
	// Load fails with domain.ErrNotFound when nothing is stored.
	Load(ctx context.Context, principal string) (*oauth2.Token, error)
	Save(ctx context.Context, principal string, tok *oauth2.Token) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkInterview(in *domain.Interview) error {
	if in == nil {
		return domain.InvalidArgument("interview is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.InvalidArgument("title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.InvalidArgument("description is required")
	}
	if in.Interviewer == nil || in.Interviewer.ID == 0 {
		return domain.InvalidArgument("interviewer is required")
	}
	if in.Interviewee == nil || in.Interviewee.ID == 0 {
		return domain.InvalidArgument("interviewee is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return domain.InvalidArgument("unknown status %q", in.Status)
	}
	return nil
}

func checkMeeting(m *domain.Meeting) error {
	if m == nil {
		return domain.InvalidArgument("meeting is required")
	}
	if strings.TrimSpace(m.JoinLink) == "" {
		return domain.InvalidArgument("join link is required")
	}
	if m.Interview == nil || m.Interview.ID == 0 {
		return domain.InvalidArgument("meeting must reference a persisted interview")
	}
	if m.Status != "" && !m.Status.Valid() {
		return domain.InvalidArgument("unknown status %q", m.Status)
	}
	return nil
}

func defaultStatus(s domain.Status) domain.Status {
	if s == "" {
		return domain.StatusScheduled
	}
	return s
}

var (
	_ UserStore      = (*Users)(nil)
	_ UserStore      = (*MemUsers)(nil)
	_ InterviewStore = (*Interviews)(nil)
	_ InterviewStore = (*MemInterviews)(nil)
	_ MeetingStore   = (*Meetings)(nil)
	_ MeetingStore   = (*MemMeetings)(nil)
	_ TokenStore     = (*Tokens)(nil)
	_ TokenStore     = (*SQLiteTokens)(nil)
	_ TokenStore     = (*MemTokens)(nil)
)
