package app

import (
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/aggregates"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Target       services.TargetService
	Progress     services.ProgressService
	Task         services.TaskService
	Feedback     services.FeedbackService
	Notification services.NotificationService
	Notifier     services.NotificationNotifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repoSet Repos, clients Clients, clk clock.Clock) Services {
	log.Info("Wiring services...")
	if clk == nil {
		clk = clock.System()
	}

	var hooks aggregates.Hooks = aggregates.NewLogHooks(log)
	if clients.Metrics != nil {
		hooks = aggregates.MultiHooks(hooks, clients.Metrics)
	}
	base := aggregates.BaseDeps{DB: db, Log: log, Hooks: hooks, Clock: clk}

	targetAgg := aggregates.NewTargetAggregate(aggregates.TargetAggregateDeps{
		Base:          base,
		Targets:       repoSet.Target,
		Checkins:      repoSet.Checkin,
		Notifications: repoSet.Notification,
	})
	notificationAgg := aggregates.NewNotificationAggregate(aggregates.NotificationAggregateDeps{
		Base:          base,
		Notifications: repoSet.Notification,
	})

	var counter services.PublishCounter
	if clients.Metrics != nil {
		counter = clients.Metrics
	}
	notifier := services.NewNotificationNotifier(clients.Bus, log, counter)
	locations := services.NewLocationResolver(repoSet.NotificationSetting, cfg.Location(), log)

	return Services{
		Auth: services.NewAuthService(
			db, log,
			repoSet.User, repoSet.UserToken,
			clk,
			cfg.JWTSecretKey,
			cfg.AccessTokenTTL,
			cfg.RefreshTokenTTL,
		),
		User:     services.NewUserService(db, log, repoSet.User),
		Target:   services.NewTargetService(db, log, repoSet.Target, repoSet.Checkin, targetAgg, locations, notifier, clk),
		Progress: services.NewProgressService(log, repoSet.Target, repoSet.Task, clk),
		Task:     services.NewTaskService(log, repoSet.Task, locations, clk),
		Feedback: services.NewFeedbackService(log, repoSet.Feedback, clk),
		Notification: services.NewNotificationService(log, services.NotificationServiceDeps{
			Notifications: repoSet.Notification,
			Devices:       repoSet.UserDevice,
			Settings:      repoSet.NotificationSetting,
			Targets:       repoSet.Target,
			Aggregate:     notificationAgg,
			Notifier:      notifier,
			DefaultTZ:     cfg.DefaultTimezone,
			Clock:         clk,
		}),
		Notifier: notifier,
	}
}
