package app

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"interview-scheduler/internal/domain"
	"interview-scheduler/internal/scheduler"
)

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("%s must be a positive integer", name)
	}
	return id, nil
}

// POST /api/users
func (a *App) CreateUserHandler(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, domain.InvalidArgument("%v", err))
		return
	}
	if err := req.Validate(); err != nil {
		a.writeError(c, domain.InvalidArgument("%v", err))
		return
	}
	u, err := a.Directory.Register(c.Request.Context(), &domain.User{Username: req.Username, Email: req.Email})
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GET /api/users
func (a *App) ListUsersHandler(c *gin.Context) {
	users, err := a.Directory.ListAll(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/users/:id
func (a *App) GetUserHandler(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		a.writeError(c, err)
		return
	}
	u, err := a.Directory.Get(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GET /api/users/random-pair
func (a *App) RandomPairHandler(c *gin.Context) {
	first, second, err := a.Directory.PickRandomPair(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, randomPairResp{Interviewer: first, Interviewee: second})
}

// GET /api/users/:id/interviews
func (a *App) ListUserInterviewsHandler(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		a.writeError(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := a.Directory.Get(ctx, id); err != nil {
		a.writeError(c, err)
		return
	}
	list, err := a.Interviews.FindByParticipant(ctx, id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Interview{}
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/interviews
// Stores the interview without booking a meeting.
func (a *App) CreateInterviewHandler(c *gin.Context) {
	var req createInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, domain.InvalidArgument("%v", err))
		return
	}
	in, err := a.interviewRequest(req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	created, err := a.Scheduler.CreateInterview(c.Request.Context(), in)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *App) interviewRequest(req createInterviewReq) (scheduler.InterviewRequest, error) {
	if err := req.Validate(); err != nil {
		return scheduler.InterviewRequest{}, domain.InvalidArgument("%v", err)
	}
	at, err := parseTime(req.ScheduledTime)
	if err != nil {
		return scheduler.InterviewRequest{}, err
	}
	return scheduler.InterviewRequest{
		InterviewerID: req.InterviewerID,
		IntervieweeID: req.IntervieweeID,
		Title:         req.Title,
		Description:   req.Description,
		ScheduledTime: at,
	}, nil
}

// GET /api/interviews
func (a *App) ListInterviewsHandler(c *gin.Context) {
	list, err := a.Interviews.FindAll(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Interview{}
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/interviews/:id
func (a *App) GetInterviewHandler(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		a.writeError(c, err)
		return
	}
	in, err := a.Interviews.FindByID(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// PUT /api/interviews/:id/status
func (a *App) UpdateInterviewStatusHandler(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		a.writeError(c, err)
		return
	}
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, domain.InvalidArgument("%v", err))
		return
	}
	in, err := a.Scheduler.UpdateInterviewStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// GET /api/interviews/:id/meeting
func (a *App) GetInterviewMeetingHandler(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		a.writeError(c, err)
		return
	}
	m, err := a.Scheduler.MeetingFor(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
