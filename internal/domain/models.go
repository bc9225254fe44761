package domain

import "time"

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// MeetingDuration is the length of every booked event.
const MeetingDuration = time.Hour

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Interview struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Interviewer   *User     `json:"interviewer"`
	Interviewee   *User     `json:"interviewee"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// Participants returns interviewer and interviewee in that order.
func (i *Interview) Participants() []*User {
	return []*User{i.Interviewer, i.Interviewee}
}

// EndTime is ScheduledTime plus MeetingDuration.
func (i *Interview) EndTime() time.Time {
	return i.ScheduledTime.Add(MeetingDuration)
}

type Meeting struct {
	ID            int64      `json:"id"`
	JoinLink      string     `json:"join_link"`
	EventID       string     `json:"event_id,omitempty"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Interview     *Interview `json:"interview"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}
