package aggregates

import (
	"strings"
	"sync"
	"time"

	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type multiHooks []Hooks

// MultiHooks fans every event out to each non-nil hook.
func MultiHooks(hooks ...Hooks) Hooks {
	out := make(multiHooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

func (m multiHooks) ObserveOperation(name, status string, dur time.Duration) {
	for _, h := range m {
		h.ObserveOperation(name, status, dur)
	}
}

func (m multiHooks) IncConflict(name string) {
	for _, h := range m {
		h.IncConflict(name)
	}
}

func (m multiHooks) IncRetry(name string) {
	for _, h := range m {
		h.IncRetry(name)
	}
}

// LogHooks logs every aggregate write and keeps per-operation conflict/retry counts.
type LogHooks struct {
	log *logger.Logger

	mu        sync.Mutex
	conflicts map[string]int64
	retries   map[string]int64
}

func NewLogHooks(log *logger.Logger) *LogHooks {
	if log == nil {
		return nil
	}
	return &LogHooks{
		log:       log.With("component", "AggregateHooks"),
		conflicts: map[string]int64{},
		retries:   map[string]int64{},
	}
}

func (h *LogHooks) ObserveOperation(name, status string, dur time.Duration) {
	if h == nil || h.log == nil {
		return
	}
	name = strings.TrimSpace(name)
	status = strings.TrimSpace(status)
	switch status {
	case "success":
		h.log.Debug("aggregate write", "op", name, "status", status, "duration_ms", dur.Milliseconds())
	case "internal", "retryable", "failure":
		h.log.Error("aggregate write failed", "op", name, "status", status, "duration_ms", dur.Milliseconds())
	default:
		h.log.Info("aggregate write rejected", "op", name, "status", status, "duration_ms", dur.Milliseconds())
	}
}

func (h *LogHooks) IncConflict(name string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.conflicts[strings.TrimSpace(name)]++
	h.mu.Unlock()
}

func (h *LogHooks) IncRetry(name string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.retries[strings.TrimSpace(name)]++
	h.mu.Unlock()
}

// Counts returns the conflict and retry totals recorded for op.
func (h *LogHooks) Counts(op string) (conflicts, retries int64) {
	if h == nil {
		return 0, 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	op = strings.TrimSpace(op)
	return h.conflicts[op], h.retries[op]
}
