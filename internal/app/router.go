package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"interview-scheduler/internal/config"
)

func NewRouter(a *App, conf *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(SetUpRequest)
	if len(conf.CORS.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     conf.CORS.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
			ExposeHeaders:    []string{RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Provider redirect and health checks stay outside API auth.
	router.GET("/oauth2callback", a.OAuth2CallbackHandler)
	router.GET("/healthz", a.HealthHandler)

	api := router.Group("/api")
	api.Use(AuthMiddleware(conf.Auth))
	{
		users := api.Group("/users")
		{
			users.POST("", a.CreateUserHandler)
			users.GET("", a.ListUsersHandler)
			users.GET("/random-pair", a.RandomPairHandler)
			users.GET("/:id", a.GetUserHandler)
			users.GET("/:id/interviews", a.ListUserInterviewsHandler)
		}

		interviews := api.Group("/interviews")
		{
			interviews.POST("", a.CreateInterviewHandler)
			interviews.GET("", a.ListInterviewsHandler)
			interviews.GET("/:id", a.GetInterviewHandler)
			interviews.PUT("/:id/status", a.UpdateInterviewStatusHandler)
			interviews.GET("/:id/meeting", a.GetInterviewMeetingHandler)
		}

		meetings := api.Group("/meetings")
		{
			meetings.POST("/schedule", a.ScheduleMeetingHandler)
			meetings.POST("/schedule-random", a.ScheduleRandomMeetingHandler)
			meetings.GET("", a.ListMeetingsHandler)
			meetings.GET("/auth-status", a.AuthStatusHandler)
		}

		api.POST("/notifications/test", a.TestNotificationHandler)
	}
	return router
}
