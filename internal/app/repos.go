package app

import (
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo

	Target  repos.TargetRepo
	Checkin repos.CheckinRepo

	Task     repos.TaskRepo
	Feedback repos.FeedbackRepo

	Notification        repos.NotificationRepo
	UserDevice          repos.UserDeviceRepo
	NotificationSetting repos.UserNotificationSettingRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                repos.NewUserRepo(db, log),
		UserToken:           repos.NewUserTokenRepo(db, log),
		Target:              repos.NewTargetRepo(db, log),
		Checkin:             repos.NewCheckinRepo(db, log),
		Task:                repos.NewTaskRepo(db, log),
		Feedback:            repos.NewFeedbackRepo(db, log),
		Notification:        repos.NewNotificationRepo(db, log),
		UserDevice:          repos.NewUserDeviceRepo(db, log),
		NotificationSetting: repos.NewUserNotificationSettingRepo(db, log),
	}
}
