package notification

import (
	"time"

	"github.com/google/uuid"
)

// UserNotificationSetting also carries the user's timezone, which decides calendar days.
type UserNotificationSetting struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	Enabled       bool      `gorm:"not null;column:enabled" json:"enabled"`
	PreferredTime string    `gorm:"type:varchar(5);column:preferred_time" json:"preferredTime"`
	QuietStart    string    `gorm:"type:varchar(5);column:quiet_start" json:"quietStart"`
	QuietEnd      string    `gorm:"type:varchar(5);column:quiet_end" json:"quietEnd"`
	Timezone      string    `gorm:"column:timezone" json:"timezone"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserNotificationSetting) TableName() string { return "user_notification_setting" }
