package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusFinished = "finished"

	DefaultDailyMinutes = 30
)

// Target is a user-owned multi-day goal. Progress counters and the JSON
// columns are only written by the progression engine.
type Target struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	Title        string     `gorm:"not null;column:title" json:"title"`
	Description  string     `gorm:"column:description" json:"description"`
	Type         string     `gorm:"column:type" json:"type"`
	SkillName    string     `gorm:"column:skill_name" json:"skillName"`
	Deadline     *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	Total        int        `gorm:"not null;default:0;column:total" json:"total"`
	TotalDays    int        `gorm:"not null;default:0;column:total_days" json:"totalDays"`
	DailyMinutes int        `gorm:"not null;default:30;column:daily_minutes" json:"dailyMinutes"`

	CurrentDay    int        `gorm:"not null;default:1;column:current_day" json:"currentDay"`
	Streak        int        `gorm:"not null;default:0;column:streak" json:"streak"`
	Completed     int        `gorm:"not null;default:0;column:completed" json:"completed"`
	LastCompleted *time.Time `gorm:"column:last_completed" json:"lastCompleted,omitempty"`

	DailyLogs  datatypes.JSON `gorm:"column:daily_logs" json:"dailyLogs"`
	DayPlans   datatypes.JSON `gorm:"column:day_plans" json:"dayPlans"`
	Milestones datatypes.JSON `gorm:"column:milestones" json:"milestones"`

	Status string `gorm:"not null;default:active;column:status" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Target) TableName() string { return "target" }

func (t *Target) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// EffectiveTotalDays reads totalDays, falling back to the legacy total.
func (t *Target) EffectiveTotalDays() int {
	if t == nil {
		return 0
	}
	if t.TotalDays > 0 {
		return t.TotalDays
	}
	return t.Total
}

type DailyLog struct {
	Day       int       `json:"day"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes"`
	TimeSpent int       `json:"timeSpent"`
}

type DayPlan struct {
	Day       int    `json:"day"`
	Task      string `json:"task"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
}

type Milestone struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
}
