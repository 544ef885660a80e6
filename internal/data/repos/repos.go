package repos

import (
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos/auth"
	"github.com/kajkor/kajkor-backend/internal/data/repos/feedback"
	"github.com/kajkor/kajkor-backend/internal/data/repos/notification"
	"github.com/kajkor/kajkor-backend/internal/data/repos/progress"
	"github.com/kajkor/kajkor-backend/internal/data/repos/task"
	"github.com/kajkor/kajkor-backend/internal/data/repos/user"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type TargetRepo = progress.TargetRepo
type CheckinRepo = progress.CheckinRepo

type TaskRepo = task.TaskRepo
type FeedbackRepo = feedback.FeedbackRepo

type NotificationRepo = notification.NotificationRepo
type UserDeviceRepo = notification.UserDeviceRepo
type UserNotificationSettingRepo = notification.UserNotificationSettingRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}

func NewTargetRepo(db *gorm.DB, log *logger.Logger) TargetRepo { return progress.NewTargetRepo(db, log) }
func NewCheckinRepo(db *gorm.DB, log *logger.Logger) CheckinRepo {
	return progress.NewCheckinRepo(db, log)
}

func NewTaskRepo(db *gorm.DB, log *logger.Logger) TaskRepo { return task.NewTaskRepo(db, log) }
func NewFeedbackRepo(db *gorm.DB, log *logger.Logger) FeedbackRepo {
	return feedback.NewFeedbackRepo(db, log)
}

func NewNotificationRepo(db *gorm.DB, log *logger.Logger) NotificationRepo {
	return notification.NewNotificationRepo(db, log)
}
func NewUserDeviceRepo(db *gorm.DB, log *logger.Logger) UserDeviceRepo {
	return notification.NewUserDeviceRepo(db, log)
}
func NewUserNotificationSettingRepo(db *gorm.DB, log *logger.Logger) UserNotificationSettingRepo {
	return notification.NewUserNotificationSettingRepo(db, log)
}
