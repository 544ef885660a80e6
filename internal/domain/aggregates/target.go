package aggregates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/domain/notification"
	"github.com/kajkor/kajkor-backend/internal/domain/progress"
)

// TargetAggregateContract covers one target row, its checkin mirror and the
// streak notifications a completion queues.
var TargetAggregateContract = Contract{
	Name:       "Progress.Target",
	LockPrefix: "target",
	Tables:     []string{"target", "checkin", "notification"},
}

// TargetAggregate owns the day progression invariants of one target.
//
// Every write locks the target row for (TargetID, UserID) and returns
// CodeNotFound when the row is missing or owned by someone else. Guard
// failures use the progression codes (CodeAlreadyCompletedToday,
// CodeAlreadyLoggedToday, CodeCompleteTodayFirst, CodeAlreadyOnFinalDay)
// and leave the row untouched.
type TargetAggregate interface {
	Aggregate

	CompleteDay(ctx context.Context, in CompleteDayInput) (CompleteDayResult, error)
	SkipDay(ctx context.Context, in TargetRef) (SkipDayResult, error)
	StartNextDay(ctx context.Context, in TargetRef) (StartNextDayResult, error)
	AddMilestone(ctx context.Context, in AddMilestoneInput) (TargetResult, error)
	Update(ctx context.Context, in UpdateTargetInput) (TargetResult, error)
	Increment(ctx context.Context, in TargetRef) (TargetResult, error)
}

// TargetRef identifies the target a write applies to and the instant it happens at.
// Location is the owner's calendar; nil means UTC. A zero Now means the aggregate clock.
type TargetRef struct {
	UserID   uuid.UUID
	TargetID uuid.UUID
	Now      time.Time
	Location *time.Location
}

type CompleteDayInput struct {
	TargetRef
	Notes     string
	TimeSpent *int
}

type CompleteDayResult struct {
	Target *progress.Target
	Log    progress.DailyLog
	// StreakNotification is set when the new streak reached a celebrated length.
	StreakNotification *notification.Notification
}

type SkipDayResult struct {
	Target *progress.Target
	Log    progress.DailyLog
}

type StartNextDayResult struct {
	Target   *progress.Target
	Advanced bool
	Message  string
}

type AddMilestoneInput struct {
	TargetRef
	Day   int
	Title string
}

// UpdateTargetInput is a partial update; nil fields are left as they are.
type UpdateTargetInput struct {
	TargetRef
	Title         *string
	Description   *string
	Type          *string
	SkillName     *string
	Deadline      *time.Time
	ClearDeadline bool
	DailyMinutes  *int
	Total         *int
	TotalDays     *int
	DayPlans      json.RawMessage
	Status        *string
}

type TargetResult struct {
	Target  *progress.Target
	Changed bool
}
