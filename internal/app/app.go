// Package app exposes the scheduling service over HTTP with gin.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"golang.org/x/oauth2"

	"interview-scheduler/internal/directory"
	"interview-scheduler/internal/repo"
	"interview-scheduler/internal/scheduler"
)

// CalendarAuth is the consent side of the calendar credential.
type CalendarAuth interface {
	AuthURL() string
	EnsureAuthorized(ctx context.Context) (*oauth2.Token, error)
	Exchange(ctx context.Context, code string) error
}

// App holds every collaborator the handlers need. Calendar may be nil when
// Google credentials are not configured; Storage may be nil for the memory
// driver.
type App struct {
	Directory  *directory.Directory
	Interviews repo.InterviewStore
	Meetings   repo.MeetingStore
	Scheduler  *scheduler.Orchestrator
	Calendar   CalendarAuth
	Storage    Pinger
}

// XLogKey is the gin context key of the per request logger.
const XLogKey = "xlog-logger"

var defaultLogger = xlog.New("app")

func (a *App) logger(c *gin.Context) *xlog.Logger {
	if val, ok := c.Get(XLogKey); ok {
		if xl, ok := val.(*xlog.Logger); ok {
			return xl
		}
	}
	return defaultLogger
}
