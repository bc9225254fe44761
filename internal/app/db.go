package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GET /healthz
func (a *App) HealthHandler(c *gin.Context) {
	if a.Storage != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := a.Storage.Ping(ctx); err != nil {
			a.logger(c).Errorf("storage ping: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "storage": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
