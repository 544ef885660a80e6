package progression

import (
	"encoding/json"

	"github.com/kajkor/kajkor-backend/internal/domain/progress"
)

type rawDayPlan struct {
	Task      string `json:"task"`
	Notes     string `json:"notes"`
	Completed bool   `json:"completed"`
}

// NormalizeDayPlans returns exactly totalDays plans numbered 1..totalDays.
// Entries are kept by index; missing, malformed and excess entries are replaced or dropped.
// Input that is not a JSON array yields all empty entries.
func NormalizeDayPlans(totalDays int, raw []byte) []progress.DayPlan {
	if totalDays <= 0 {
		return []progress.DayPlan{}
	}
	var items []json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &items); err != nil {
			items = nil
		}
	}
	out := make([]progress.DayPlan, totalDays)
	for i := range out {
		out[i] = progress.DayPlan{Day: i + 1}
		if i >= len(items) {
			continue
		}
		var rp rawDayPlan
		if err := json.Unmarshal(items[i], &rp); err != nil {
			continue
		}
		out[i].Task = rp.Task
		out[i].Notes = rp.Notes
		out[i].Completed = rp.Completed
	}
	return out
}

// ResizeDayPlans is NormalizeDayPlans for already decoded plans.
func ResizeDayPlans(totalDays int, plans []progress.DayPlan) []progress.DayPlan {
	if totalDays <= 0 {
		return []progress.DayPlan{}
	}
	out := make([]progress.DayPlan, totalDays)
	for i := range out {
		out[i] = progress.DayPlan{Day: i + 1}
		if i < len(plans) {
			out[i].Task = plans[i].Task
			out[i].Notes = plans[i].Notes
			out[i].Completed = plans[i].Completed
		}
	}
	return out
}
