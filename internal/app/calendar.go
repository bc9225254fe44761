package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-scheduler/internal/calendar"
	"interview-scheduler/internal/domain"
)

// POST /api/meetings/schedule
// Accepts a JSON body or the interviewerId/intervieweeId/title/description/
// scheduledTime form and query parameters.
func (a *App) ScheduleMeetingHandler(c *gin.Context) {
	var req createInterviewReq
	if err := c.ShouldBind(&req); err != nil {
		a.writeError(c, domain.InvalidArgument("%v", err))
		return
	}
	in, err := a.interviewRequest(req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	m, err := a.Scheduler.ScheduleInterview(c.Request.Context(),
		in.InterviewerID, in.IntervieweeID, in.Title, in.Description, in.ScheduledTime)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.logger(c).Infof("booked meeting %d for interview %d", m.ID, m.Interview.ID)
	c.JSON(http.StatusOK, m)
}

// POST /api/meetings/schedule-random
func (a *App) ScheduleRandomMeetingHandler(c *gin.Context) {
	var req scheduleRandomReq
	if err := c.ShouldBind(&req); err != nil {
		a.writeError(c, domain.InvalidArgument("%v", err))
		return
	}
	if err := req.Validate(); err != nil {
		a.writeError(c, domain.InvalidArgument("%v", err))
		return
	}
	at, err := parseTime(req.ScheduledTime)
	if err != nil {
		a.writeError(c, err)
		return
	}
	m, err := a.Scheduler.ScheduleRandomInterview(c.Request.Context(), req.Title, req.Description, at)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GET /api/meetings
func (a *App) ListMeetingsHandler(c *gin.Context) {
	list, err := a.Meetings.FindAll(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Meeting{}
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/meetings/auth-status
func (a *App) AuthStatusHandler(c *gin.Context) {
	if a.Calendar == nil {
		a.writeError(c, calendar.ErrNotConfigured)
		return
	}
	if _, err := a.Calendar.EnsureAuthorized(c.Request.Context()); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "authorized"})
}

// GET /oauth2callback
func (a *App) OAuth2CallbackHandler(c *gin.Context) {
	if a.Calendar == nil {
		a.writeError(c, calendar.ErrNotConfigured)
		return
	}
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Authorization failed: authorization code required")
		return
	}
	if err := a.Calendar.Exchange(c.Request.Context(), code); err != nil {
		a.logger(c).Errorf("Failed to handle OAuth callback: %v", err)
		c.String(http.StatusBadRequest, "Authorization failed: "+err.Error())
		return
	}
	c.String(http.StatusOK, "Authorization successful! You can now close this window and return to the application.")
}

// POST /api/notifications/test
func (a *App) TestNotificationHandler(c *gin.Context) {
	in, err := a.Scheduler.SendTestInvite(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test email sent", "interview": in})
}
