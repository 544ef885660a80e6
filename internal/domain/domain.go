package domain

import (
	"github.com/kajkor/kajkor-backend/internal/domain/auth"
	"github.com/kajkor/kajkor-backend/internal/domain/feedback"
	"github.com/kajkor/kajkor-backend/internal/domain/notification"
	"github.com/kajkor/kajkor-backend/internal/domain/progress"
	"github.com/kajkor/kajkor-backend/internal/domain/task"
	"github.com/kajkor/kajkor-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Target = progress.Target
type DailyLog = progress.DailyLog
type DayPlan = progress.DayPlan
type Milestone = progress.Milestone
type Checkin = progress.Checkin

type Task = task.Task
type Feedback = feedback.Feedback

type Notification = notification.Notification
type UserDevice = notification.UserDevice
type UserNotificationSetting = notification.UserNotificationSetting

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Target{},
		&Checkin{},
		&Task{},
		&Feedback{},
		&Notification{},
		&UserDevice{},
		&UserNotificationSetting{},
	}
}
