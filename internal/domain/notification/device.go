package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

type UserDevice struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	FCMToken   string    `gorm:"uniqueIndex;not null;column:fcm_token" json:"fcmToken"`
	Platform   string    `gorm:"not null;column:platform" json:"platform"`
	LastSeenAt time.Time `gorm:"not null;column:last_seen_at" json:"lastSeenAt"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
}

func (UserDevice) TableName() string { return "user_device" }

func (d *UserDevice) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
