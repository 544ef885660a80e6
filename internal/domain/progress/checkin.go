package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CheckinCompleted = "completed"
	CheckinSkipped   = "skipped"
)

// Checkin mirrors a target's outcome for one calendar date (YYYY-MM-DD in the owner's timezone).
type Checkin struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TargetID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_checkin_target_date,priority:1" json:"targetId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_checkin_target_date,priority:2" json:"date"`
	Status    string    `gorm:"not null;column:status" json:"status"`
	DoneValue int       `gorm:"not null;default:0;column:done_value" json:"doneValue"`
	Notes     string    `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Checkin) TableName() string { return "checkin" }

func (c *Checkin) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
