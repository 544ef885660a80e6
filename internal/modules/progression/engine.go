package progression

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/kajkor/kajkor-backend/internal/domain/progress"
)

const SkippedNote = "Skipped"

// Engine applies day transitions at a fixed instant. Every method checks its
// guards before touching s, so a returned error means s is unchanged.
type Engine struct {
	Now time.Time
	Cal Calendar
}

func New(now time.Time, loc *time.Location) Engine {
	return Engine{Now: now, Cal: NewCalendar(loc)}
}

// TodayLog returns the first log dated on the same calendar day as now.
func TodayLog(logs []progress.DailyLog, now time.Time, cal Calendar) (progress.DailyLog, bool) {
	for _, l := range logs {
		if l.Date.IsZero() {
			continue
		}
		if cal.SameDay(l.Date, now) {
			return l, true
		}
	}
	return progress.DailyLog{}, false
}

// todayCompletedLog finds today's completed entry, skipping over a same-day skip.
func todayCompletedLog(logs []progress.DailyLog, now time.Time, cal Calendar) (progress.DailyLog, bool) {
	for _, l := range logs {
		if l.Completed && !l.Date.IsZero() && cal.SameDay(l.Date, now) {
			return l, true
		}
	}
	return progress.DailyLog{}, false
}

type CompleteDayInput struct {
	Notes     string
	TimeSpent *int
}

func (e Engine) CompleteDay(s *State, in CompleteDayInput) (progress.DailyLog, error) {
	const op = "progression.complete_day"
	total := s.Days()
	if total <= 0 {
		return progress.DailyLog{}, errValidation(op, "target has no days to complete")
	}
	if _, ok := todayCompletedLog(s.DailyLogs, e.Now, e.Cal); ok {
		return progress.DailyLog{}, errAlreadyCompletedToday(op)
	}
	spent := s.DailyMinutes
	if in.TimeSpent != nil {
		if *in.TimeSpent < 0 {
			return progress.DailyLog{}, errValidation(op, "timeSpent must not be negative")
		}
		if *in.TimeSpent > 0 {
			spent = *in.TimeSpent
		}
	}

	now := e.Now.UTC()
	entry := progress.DailyLog{
		Day:       s.CurrentDay,
		Date:      now,
		Completed: true,
		Notes:     strings.TrimSpace(in.Notes),
		TimeSpent: spent,
	}
	s.DailyLogs = append(s.DailyLogs, entry)

	if s.LastCompleted == nil || e.Cal.IsYesterday(*s.LastCompleted, e.Now) {
		s.Streak++
	} else {
		s.Streak = 1
	}
	s.CurrentDay = min(s.CurrentDay+1, total)
	s.Completed = min(s.Completed+1, total)
	s.LastCompleted = &now
	if s.Completed >= total {
		s.Status = progress.StatusFinished
	}
	return entry, nil
}

func (e Engine) SkipDay(s *State) (progress.DailyLog, error) {
	const op = "progression.skip_day"
	if _, ok := TodayLog(s.DailyLogs, e.Now, e.Cal); ok {
		return progress.DailyLog{}, errAlreadyLoggedToday(op)
	}
	entry := progress.DailyLog{
		Day:       s.CurrentDay,
		Date:      e.Now.UTC(),
		Completed: false,
		Notes:     SkippedNote,
		TimeSpent: 0,
	}
	s.DailyLogs = append(s.DailyLogs, entry)
	s.Streak = 0
	return entry, nil
}

type StartNextOutcome struct {
	Advanced bool
	Message  string
}

// StartNextDay unlocks the day after today's completion once. A repeat call
// after the unlock succeeds without advancing.
func (e Engine) StartNextDay(s *State) (StartNextOutcome, error) {
	const op = "progression.start_next_day"
	today, ok := todayCompletedLog(s.DailyLogs, e.Now, e.Cal)
	if !ok {
		return StartNextOutcome{}, errCompleteTodayFirst(op)
	}
	if s.CurrentDay > today.Day+1 {
		return StartNextOutcome{Advanced: false, Message: MsgNextDayAlreadyUnlocked}, nil
	}
	total := s.Days()
	if s.CurrentDay >= total {
		return StartNextOutcome{}, errAlreadyOnFinalDay(op)
	}
	s.CurrentDay = min(s.CurrentDay+1, total)
	return StartNextOutcome{Advanced: true, Message: MsgNextDayStarted}, nil
}

type NextDayStatus struct {
	CanStartNext   bool `json:"canStartNext"`
	CurrentDay     int  `json:"currentDay"`
	TodayCompleted bool `json:"todayCompleted"`
}

// CanStartNextDay reports whether StartNextDay would advance right now.
func (e Engine) CanStartNextDay(s *State) NextDayStatus {
	out := NextDayStatus{CurrentDay: s.CurrentDay}
	today, ok := todayCompletedLog(s.DailyLogs, e.Now, e.Cal)
	if !ok {
		return out
	}
	out.TodayCompleted = true
	out.CanStartNext = s.CurrentDay <= today.Day+1 && s.CurrentDay < s.Days()
	return out
}

// IsCompletedToday is the per-target flag of the today view.
func (e Engine) IsCompletedToday(s *State) (bool, *progress.DailyLog) {
	if l, ok := todayCompletedLog(s.DailyLogs, e.Now, e.Cal); ok {
		return true, &l
	}
	if l, ok := TodayLog(s.DailyLogs, e.Now, e.Cal); ok {
		return false, &l
	}
	return false, nil
}

func AddMilestone(s *State, m progress.Milestone) (progress.Milestone, error) {
	const op = "progression.add_milestone"
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return progress.Milestone{}, errValidation(op, "milestone title is required")
	}
	if m.Day < 1 {
		return progress.Milestone{}, errValidation(op, "milestone day must be at least 1")
	}
	s.Milestones = append(s.Milestones, m)
	return m, nil
}

// Increment bumps the legacy counter while completed < total.
func Increment(s *State) bool {
	limit := s.Total
	if limit <= 0 {
		limit = s.TotalDays
	}
	if s.Completed >= limit {
		return false
	}
	s.Completed++
	return true
}

// Patch holds the progression-relevant fields of a target update. Nil means unchanged.
type Patch struct {
	Total        *int
	TotalDays    *int
	DailyMinutes *int
	DayPlans     json.RawMessage
	Status       *string
}

func ApplyPatch(s *State, p Patch) error {
	const op = "progression.update"
	if p.Total != nil && *p.Total < 0 {
		return errValidation(op, "total must not be negative")
	}
	if p.TotalDays != nil && *p.TotalDays < 0 {
		return errValidation(op, "totalDays must not be negative")
	}
	if p.DailyMinutes != nil && *p.DailyMinutes <= 0 {
		return errValidation(op, "dailyMinutes must be positive")
	}
	if p.Status != nil {
		switch *p.Status {
		case progress.StatusActive, progress.StatusFinished:
		default:
			return errValidation(op, "status must be active or finished")
		}
	}

	if p.Total != nil {
		s.Total = *p.Total
	}
	if p.TotalDays != nil {
		s.TotalDays = *p.TotalDays
	}
	if p.DailyMinutes != nil {
		s.DailyMinutes = *p.DailyMinutes
	}
	if p.Status != nil {
		s.Status = *p.Status
	}

	total := s.Days()
	if p.DayPlans != nil {
		s.DayPlans = NormalizeDayPlans(total, p.DayPlans)
	} else {
		s.DayPlans = ResizeDayPlans(total, s.DayPlans)
	}
	if total > 0 {
		s.CurrentDay = max(1, min(s.CurrentDay, total))
		s.Completed = min(s.Completed, total)
	}
	return nil
}
