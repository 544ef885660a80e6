package progression

import (
	"bytes"
	"encoding/json"
	"time"

	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/domain/progress"
)

// State is the decoded progression view of a Target row.
type State struct {
	Total         int
	TotalDays     int
	DailyMinutes  int
	CurrentDay    int
	Streak        int
	Completed     int
	LastCompleted *time.Time
	Status        string

	DailyLogs  []progress.DailyLog
	DayPlans   []progress.DayPlan
	Milestones []progress.Milestone
}

// Days is the plan length: totalDays, or the legacy total when totalDays is unset.
func (s *State) Days() int {
	if s.TotalDays > 0 {
		return s.TotalDays
	}
	return s.Total
}

// Load decodes t. Day plans pass through NormalizeDayPlans so drift is repaired on read.
func Load(t *progress.Target) (*State, error) {
	const op = "progression.load"
	if t == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "Target not found", nil)
	}
	s := &State{
		Total:         t.Total,
		TotalDays:     t.TotalDays,
		DailyMinutes:  t.DailyMinutes,
		CurrentDay:    t.CurrentDay,
		Streak:        t.Streak,
		Completed:     t.Completed,
		LastCompleted: t.LastCompleted,
		Status:        t.Status,
	}
	if s.CurrentDay < 1 {
		s.CurrentDay = 1
	}
	if s.DailyMinutes <= 0 {
		s.DailyMinutes = progress.DefaultDailyMinutes
	}
	if s.Status == "" {
		s.Status = progress.StatusActive
	}
	if err := decodeList(t.DailyLogs, &s.DailyLogs); err != nil {
		return nil, domainagg.NewError(domainagg.CodeInvariantViolation, op, "daily logs are not a valid list", err)
	}
	if err := decodeList(t.Milestones, &s.Milestones); err != nil {
		return nil, domainagg.NewError(domainagg.CodeInvariantViolation, op, "milestones are not a valid list", err)
	}
	s.DayPlans = NormalizeDayPlans(s.Days(), t.DayPlans)
	return s, nil
}

// Store writes s back onto t, replacing every progression field.
func (s *State) Store(t *progress.Target) error {
	logs, err := json.Marshal(nonNil(s.DailyLogs))
	if err != nil {
		return err
	}
	plans, err := json.Marshal(ResizeDayPlans(s.Days(), s.DayPlans))
	if err != nil {
		return err
	}
	milestones, err := json.Marshal(nonNil(s.Milestones))
	if err != nil {
		return err
	}
	t.Total = s.Total
	t.TotalDays = s.TotalDays
	t.DailyMinutes = s.DailyMinutes
	t.CurrentDay = s.CurrentDay
	t.Streak = s.Streak
	t.Completed = s.Completed
	t.LastCompleted = s.LastCompleted
	t.Status = s.Status
	t.DailyLogs = logs
	t.DayPlans = plans
	t.Milestones = milestones
	return nil
}

// NewState is the initial progression state of a freshly created target.
func NewState(total, totalDays, dailyMinutes int, rawPlans []byte) *State {
	if dailyMinutes <= 0 {
		dailyMinutes = progress.DefaultDailyMinutes
	}
	s := &State{
		Total:        total,
		TotalDays:    totalDays,
		DailyMinutes: dailyMinutes,
		CurrentDay:   1,
		Status:       progress.StatusActive,
		DailyLogs:    []progress.DailyLog{},
		Milestones:   []progress.Milestone{},
	}
	s.DayPlans = NormalizeDayPlans(s.Days(), rawPlans)
	return s
}

func decodeList[T any](raw []byte, dst *[]T) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*dst = []T{}
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = []T{}
	}
	*dst = out
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
