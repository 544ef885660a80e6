package feedback

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultSource = "mobile"

type Feedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Message   string    `gorm:"type:text;not null;column:message" json:"message"`
	Source    string    `gorm:"not null;default:mobile;column:source" json:"source"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
