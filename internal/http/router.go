package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/kajkor/kajkor-backend/internal/http/handlers"
	httpMW "github.com/kajkor/kajkor-backend/internal/http/middleware"
	"github.com/kajkor/kajkor-backend/internal/observability"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	TargetHandler       *httpH.TargetHandler
	ProgressHandler     *httpH.ProgressHandler
	TaskHandler         *httpH.TaskHandler
	FeedbackHandler     *httpH.FeedbackHandler
	NotificationHandler *httpH.NotificationHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		r.POST("/auth/signup", cfg.AuthHandler.Signup)
		r.POST("/auth/login", cfg.AuthHandler.Login)
		r.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	}

	protected := r.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me", cfg.UserHandler.UpdateMe)
		}

		// Targets
		if cfg.TargetHandler != nil {
			protected.GET("/targets", cfg.TargetHandler.List)
			protected.POST("/targets", cfg.TargetHandler.Create)
			protected.GET("/targets/today", cfg.TargetHandler.Today)
			protected.GET("/targets/:id", cfg.TargetHandler.Get)
			protected.PATCH("/targets/:id", cfg.TargetHandler.Update)
			protected.PATCH("/targets/:id/complete-day", cfg.TargetHandler.CompleteDay)
			protected.PATCH("/targets/:id/skip-day", cfg.TargetHandler.SkipDay)
			protected.PATCH("/targets/:id/start-next", cfg.TargetHandler.StartNextDay)
			protected.GET("/targets/:id/can-start-next-day", cfg.TargetHandler.CanStartNextDay)
			protected.GET("/targets/:id/checkins", cfg.TargetHandler.Checkins)
			protected.POST("/targets/:id/milestones", cfg.TargetHandler.AddMilestone)
			protected.PATCH("/targets/:id/increment", cfg.TargetHandler.Increment)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.Dashboard)
		}

		// Tasks
		if cfg.TaskHandler != nil {
			protected.GET("/tasks", cfg.TaskHandler.List)
			protected.POST("/tasks", cfg.TaskHandler.Create)
			protected.PUT("/tasks/:id", cfg.TaskHandler.Update)
			protected.PATCH("/tasks/:id/toggle", cfg.TaskHandler.Toggle)
			protected.DELETE("/tasks/:id", cfg.TaskHandler.Delete)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			protected.POST("/feedback", cfg.FeedbackHandler.Submit)
		}

		// Notifications
		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.GET("/notifications/settings", cfg.NotificationHandler.GetSettings)
			protected.PUT("/notifications/settings", cfg.NotificationHandler.UpdateSettings)
			protected.POST("/notifications/devices", cfg.NotificationHandler.RegisterDevice)
			protected.POST("/notifications/reminders", cfg.NotificationHandler.QueueReminder)
			protected.PATCH("/notifications/:id/cancel", cfg.NotificationHandler.Cancel)
		}
	}

	return r
}
