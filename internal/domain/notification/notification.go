package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TypeReminder = "reminder"
	TypeBehind   = "behind"
	TypeDeadline = "deadline"
	TypeStreak   = "streak"

	StatusQueued    = "queued"
	StatusSent      = "sent"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

type Notification struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_notification_user_status,priority:1" json:"userId"`
	TargetID    *uuid.UUID     `gorm:"type:uuid;index" json:"targetId,omitempty"`
	Type        string         `gorm:"not null;column:type" json:"type"`
	Status      string         `gorm:"not null;default:queued;index:idx_notification_user_status,priority:2" json:"status"`
	Title       string         `gorm:"column:title" json:"title"`
	Body        string         `gorm:"type:text;column:body" json:"body"`
	ScheduledAt time.Time      `gorm:"not null;index;column:scheduled_at" json:"scheduledAt"`
	SentAt      *time.Time     `gorm:"column:sent_at" json:"sentAt,omitempty"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func ValidType(t string) bool {
	switch t {
	case TypeReminder, TypeBehind, TypeDeadline, TypeStreak:
		return true
	}
	return false
}

var streakMilestones = []int{3, 7, 14, 30, 60, 100}

// IsStreakMilestone reports whether a streak of n days gets a celebration notification.
func IsStreakMilestone(n int) bool {
	for _, m := range streakMilestones {
		if n == m {
			return true
		}
	}
	return false
}
