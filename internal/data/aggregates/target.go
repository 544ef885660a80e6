package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/domain/notification"
	"github.com/kajkor/kajkor-backend/internal/domain/progress"
	"github.com/kajkor/kajkor-backend/internal/modules/progression"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

type TargetAggregateDeps struct {
	Base BaseDeps

	Targets       repos.TargetRepo
	Checkins      repos.CheckinRepo
	Notifications repos.NotificationRepo
}

type targetAggregate struct {
	deps TargetAggregateDeps
}

func NewTargetAggregate(deps TargetAggregateDeps) domainagg.TargetAggregate {
	deps.Base = deps.Base.withDefaults()
	return &targetAggregate{deps: deps}
}

func (a *targetAggregate) Contract() domainagg.Contract {
	return domainagg.TargetAggregateContract
}

// mutate is the shared read-modify-write of one target: lock, decode, apply, encode, save.
func (a *targetAggregate) mutate(ctx context.Context, op string, ref domainagg.TargetRef, apply func(dbc dbctx.Context, row *types.Target, eng progression.Engine, s *progression.State) (bool, error)) (*types.Target, error) {
	if ref.UserID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if ref.TargetID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing target_id", nil)
	}
	if a.deps.Targets == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "target aggregate repos not configured", nil)
	}
	now := ref.Now
	if now.IsZero() {
		now = a.deps.Base.Clock.Now()
	}
	eng := progression.New(now, ref.Location)

	var out *types.Target
	err := executeLocked(ctx, a.deps.Base, domainagg.TargetAggregateContract.LockKey(ref.TargetID), op, func(dbc dbctx.Context) error {
		row, err := a.deps.Targets.LockByIDForUser(dbc, ref.UserID, ref.TargetID)
		if err != nil {
			return err
		}
		if row == nil || row.ID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "Target not found", nil)
		}
		state, err := progression.Load(row)
		if err != nil {
			return err
		}
		changed, err := apply(dbc, row, eng, state)
		if err != nil {
			return err
		}
		out = row
		if !changed {
			return nil
		}
		if err := state.Store(row); err != nil {
			return InvariantError(fmt.Sprintf("encode target state: %v", err))
		}
		row.UpdatedAt = now.UTC()
		return a.deps.Targets.Save(dbc, row)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *targetAggregate) CompleteDay(ctx context.Context, in domainagg.CompleteDayInput) (domainagg.CompleteDayResult, error) {
	op := domainagg.TargetAggregateContract.Op("CompleteDay")
	var out domainagg.CompleteDayResult
	row, err := a.mutate(ctx, op, in.TargetRef, func(dbc dbctx.Context, row *types.Target, eng progression.Engine, s *progression.State) (bool, error) {
		entry, err := eng.CompleteDay(s, progression.CompleteDayInput{Notes: in.Notes, TimeSpent: in.TimeSpent})
		if err != nil {
			return false, err
		}
		out.Log = entry
		if err := a.upsertCheckin(dbc, row, eng, progress.CheckinCompleted, entry); err != nil {
			return false, err
		}
		if notification.IsStreakMilestone(s.Streak) {
			n, err := a.queueStreakNotification(dbc, row, s.Streak, eng.Now)
			if err != nil {
				return false, err
			}
			out.StreakNotification = n
		}
		return true, nil
	})
	if err != nil {
		return domainagg.CompleteDayResult{}, err
	}
	out.Target = row
	return out, nil
}

func (a *targetAggregate) SkipDay(ctx context.Context, in domainagg.TargetRef) (domainagg.SkipDayResult, error) {
	op := domainagg.TargetAggregateContract.Op("SkipDay")
	var out domainagg.SkipDayResult
	row, err := a.mutate(ctx, op, in, func(dbc dbctx.Context, row *types.Target, eng progression.Engine, s *progression.State) (bool, error) {
		entry, err := eng.SkipDay(s)
		if err != nil {
			return false, err
		}
		out.Log = entry
		return true, a.upsertCheckin(dbc, row, eng, progress.CheckinSkipped, entry)
	})
	if err != nil {
		return domainagg.SkipDayResult{}, err
	}
	out.Target = row
	return out, nil
}

func (a *targetAggregate) StartNextDay(ctx context.Context, in domainagg.TargetRef) (domainagg.StartNextDayResult, error) {
	op := domainagg.TargetAggregateContract.Op("StartNextDay")
	var out domainagg.StartNextDayResult
	row, err := a.mutate(ctx, op, in, func(_ dbctx.Context, _ *types.Target, eng progression.Engine, s *progression.State) (bool, error) {
		res, err := eng.StartNextDay(s)
		if err != nil {
			return false, err
		}
		out.Advanced = res.Advanced
		out.Message = res.Message
		return res.Advanced, nil
	})
	if err != nil {
		return domainagg.StartNextDayResult{}, err
	}
	out.Target = row
	return out, nil
}

func (a *targetAggregate) AddMilestone(ctx context.Context, in domainagg.AddMilestoneInput) (domainagg.TargetResult, error) {
	op := domainagg.TargetAggregateContract.Op("AddMilestone")
	row, err := a.mutate(ctx, op, in.TargetRef, func(_ dbctx.Context, _ *types.Target, _ progression.Engine, s *progression.State) (bool, error) {
		if _, err := progression.AddMilestone(s, progress.Milestone{Day: in.Day, Title: in.Title}); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return domainagg.TargetResult{}, err
	}
	return domainagg.TargetResult{Target: row, Changed: true}, nil
}

func (a *targetAggregate) Update(ctx context.Context, in domainagg.UpdateTargetInput) (domainagg.TargetResult, error) {
	op := domainagg.TargetAggregateContract.Op("Update")
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return domainagg.TargetResult{}, domainagg.NewError(domainagg.CodeValidation, op, "title must not be empty", nil)
	}
	row, err := a.mutate(ctx, op, in.TargetRef, func(_ dbctx.Context, row *types.Target, _ progression.Engine, s *progression.State) (bool, error) {
		if err := progression.ApplyPatch(s, progression.Patch{
			Total:        in.Total,
			TotalDays:    in.TotalDays,
			DailyMinutes: in.DailyMinutes,
			DayPlans:     in.DayPlans,
			Status:       in.Status,
		}); err != nil {
			return false, err
		}
		if in.Title != nil {
			row.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			row.Description = *in.Description
		}
		if in.Type != nil {
			row.Type = strings.TrimSpace(*in.Type)
		}
		if in.SkillName != nil {
			row.SkillName = strings.TrimSpace(*in.SkillName)
		}
		switch {
		case in.ClearDeadline:
			row.Deadline = nil
		case in.Deadline != nil:
			d := in.Deadline.UTC()
			row.Deadline = &d
		}
		return true, nil
	})
	if err != nil {
		return domainagg.TargetResult{}, err
	}
	return domainagg.TargetResult{Target: row, Changed: true}, nil
}

func (a *targetAggregate) Increment(ctx context.Context, in domainagg.TargetRef) (domainagg.TargetResult, error) {
	op := domainagg.TargetAggregateContract.Op("Increment")
	changed := false
	row, err := a.mutate(ctx, op, in, func(_ dbctx.Context, _ *types.Target, _ progression.Engine, s *progression.State) (bool, error) {
		changed = progression.Increment(s)
		return changed, nil
	})
	if err != nil {
		return domainagg.TargetResult{}, err
	}
	return domainagg.TargetResult{Target: row, Changed: changed}, nil
}

func (a *targetAggregate) upsertCheckin(dbc dbctx.Context, row *types.Target, eng progression.Engine, status string, entry progress.DailyLog) error {
	if a.deps.Checkins == nil {
		return nil
	}
	return a.deps.Checkins.Upsert(dbc, &types.Checkin{
		TargetID:  row.ID,
		UserID:    row.UserID,
		Date:      eng.Cal.DateKey(eng.Now),
		Status:    status,
		DoneValue: entry.TimeSpent,
		Notes:     entry.Notes,
	})
}

func (a *targetAggregate) queueStreakNotification(dbc dbctx.Context, row *types.Target, streak int, now time.Time) (*types.Notification, error) {
	if a.deps.Notifications == nil {
		return nil, nil
	}
	payload, _ := json.Marshal(map[string]any{
		"targetId": row.ID.String(),
		"streak":   streak,
	})
	targetID := row.ID
	n := &types.Notification{
		UserID:      row.UserID,
		TargetID:    &targetID,
		Type:        notification.TypeStreak,
		Status:      notification.StatusQueued,
		Title:       fmt.Sprintf("%d-day streak", streak),
		Body:        fmt.Sprintf("You have worked on %q %d days in a row. Keep it going!", row.Title, streak),
		ScheduledAt: now.UTC(),
		Payload:     datatypes.JSON(payload),
	}
	if _, err := a.deps.Notifications.Create(dbc, []*types.Notification{n}); err != nil {
		return nil, err
	}
	return n, nil
}
