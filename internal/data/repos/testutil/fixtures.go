package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/domain/progress"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedTarget creates a target on day 1 with totalDays empty day plans.
func SeedTarget(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalDays int) *types.Target {
	tb.Helper()
	plans := make([]progress.DayPlan, totalDays)
	for i := range plans {
		plans[i] = progress.DayPlan{Day: i + 1}
	}
	rawPlans, err := json.Marshal(plans)
	if err != nil {
		tb.Fatalf("encode day plans: %v", err)
	}
	t := &types.Target{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        "Learn Go",
		Type:         "skill",
		TotalDays:    totalDays,
		DailyMinutes: 30,
		CurrentDay:   1,
		Status:       progress.StatusActive,
		DailyLogs:    datatypes.JSON([]byte("[]")),
		DayPlans:     datatypes.JSON(rawPlans),
		Milestones:   datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed target: %v", err)
	}
	return t
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string, done bool) *types.Task {
	tb.Helper()
	t := &types.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "task",
		Date:        date,
		IsCompleted: done,
	}
	if done {
		now := time.Now().UTC()
		t.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrInt(v int) *int { return &v }

func PtrString(v string) *string { return &v }
