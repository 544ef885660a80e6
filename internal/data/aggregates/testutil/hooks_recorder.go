package testutil

import (
	"sync"
	"time"

	"github.com/kajkor/kajkor-backend/internal/data/aggregates"
)

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

// HooksRecorder is an aggregates.Hooks that keeps every signal in call order.
// Read the slices only after the writes under test have returned.
type HooksRecorder struct {
	mu         sync.Mutex
	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) record(fn func()) {
	h.mu.Lock()
	fn()
	h.mu.Unlock()
}

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.record(func() { h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur}) })
}

func (h *HooksRecorder) IncConflict(name string) {
	h.record(func() { h.Conflicts = append(h.Conflicts, name) })
}

func (h *HooksRecorder) IncRetry(name string) {
	h.record(func() { h.Retries = append(h.Retries, name) })
}

// Statuses returns the statuses recorded for op, oldest first.
func (h *HooksRecorder) Statuses(op string) []string {
	out := []string{}
	h.record(func() {
		for _, ev := range h.Operations {
			if ev.Name == op {
				out = append(out, ev.Status)
			}
		}
	})
	return out
}
