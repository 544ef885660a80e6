package app

import (
	"context"

	"gorm.io/gorm"

	httpserver "github.com/kajkor/kajkor-backend/internal/http"
	httpH "github.com/kajkor/kajkor-backend/internal/http/handlers"
	httpMW "github.com/kajkor/kajkor-backend/internal/http/middleware"
	"github.com/kajkor/kajkor-backend/internal/observability"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Target       *httpH.TargetHandler
	Progress     *httpH.ProgressHandler
	Task         *httpH.TaskHandler
	Feedback     *httpH.FeedbackHandler
	Notification *httpH.NotificationHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(pingDB(db)),
		Auth:         httpH.NewAuthHandler(svc.Auth),
		User:         httpH.NewUserHandler(svc.User),
		Target:       httpH.NewTargetHandler(svc.Target),
		Progress:     httpH.NewProgressHandler(svc.Progress),
		Task:         httpH.NewTaskHandler(svc.Task),
		Feedback:     httpH.NewFeedbackHandler(svc.Feedback),
		Notification: httpH.NewNotificationHandler(svc.Notification),
	}
}

func wireMiddleware(log *logger.Logger, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, svc.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, mw Middleware) *httpserver.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		AllowedOrigins:      cfg.AllowedOrigins,
		Metrics:             metrics,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      mw.Auth,
		UserHandler:         handlers.User,
		TargetHandler:       handlers.Target,
		ProgressHandler:     handlers.Progress,
		TaskHandler:         handlers.Task,
		FeedbackHandler:     handlers.Feedback,
		NotificationHandler: handlers.Notification,
		HealthHandler:       handlers.Health,
	})
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
