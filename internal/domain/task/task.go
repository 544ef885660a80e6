package task

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is an entry on the daily to-do list. Deadline is a wall-clock "HH:MM".
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_task_user_date,priority:1" json:"userId"`
	Title       string     `gorm:"not null;column:title" json:"title"`
	Date        string     `gorm:"type:varchar(10);not null;index:idx_task_user_date,priority:2" json:"date"`
	Deadline    string     `gorm:"type:varchar(5);column:deadline" json:"deadline,omitempty"`
	IsCompleted bool       `gorm:"not null;default:false;column:is_completed" json:"isCompleted"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Task) TableName() string { return "task" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
