package app

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"interview-scheduler/internal/domain"
)

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (r createUserReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

// createInterviewReq doubles as the /meetings/schedule form. The camelCase
// form names are the ones the web frontend posts.
type createInterviewReq struct {
	InterviewerID int64  `json:"interviewer_id" form:"interviewerId"`
	IntervieweeID int64  `json:"interviewee_id" form:"intervieweeId"`
	Title         string `json:"title" form:"title"`
	Description   string `json:"description" form:"description"`
	ScheduledTime string `json:"scheduled_time" form:"scheduledTime"`
}

func (r createInterviewReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InterviewerID, validation.Required),
		validation.Field(&r.IntervieweeID, validation.Required),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.ScheduledTime, validation.Required),
	)
}

type scheduleRandomReq struct {
	Title         string `json:"title" form:"title"`
	Description   string `json:"description" form:"description"`
	ScheduledTime string `json:"scheduled_time" form:"scheduledTime"`
}

func (r scheduleRandomReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.ScheduledTime, validation.Required),
	)
}

type updateStatusReq struct {
	Status domain.Status `json:"status"`
}

type randomPairResp struct {
	Interviewer domain.User `json:"interviewer"`
	Interviewee domain.User `json:"interviewee"`
}

// Times without an offset are taken as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.InvalidArgument("scheduled_time %q is not an ISO-8601 date time", s)
}
