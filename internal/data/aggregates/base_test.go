package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
	}, "Progress.Target.CompleteDay", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != "success" {
		t.Fatalf("operations: %+v", hooks.Operations)
	}
}

func TestExecuteWriteReportsProgressionCodeAsStatus(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
	}, "Progress.Target.SkipDay", func(_ dbctx.Context) error {
		return domainagg.NewError(domainagg.CodeAlreadyLoggedToday, "progression.skip_day", "already logged", nil)
	})
	if !domainagg.IsCode(err, domainagg.CodeAlreadyLoggedToday) {
		t.Fatalf("code: want=%s got=%s", domainagg.CodeAlreadyLoggedToday, domainagg.CodeOf(err))
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(domainagg.CodeAlreadyLoggedToday) {
		t.Fatalf("operations: %+v", hooks.Operations)
	}
	if len(hooks.Conflicts) != 0 || len(hooks.Retries) != 0 {
		t.Fatalf("guard rejections are not conflicts: conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
	}
}

func TestExecuteWriteTracksConflictAndRetryCounters(t *testing.T) {
	t.Run("conflict", func(t *testing.T) {
		hooks := &spyHooks{}
		err := executeWrite(context.Background(), BaseDeps{
			Runner: spyTxRunner{},
			Hooks:  hooks,
		}, "Notification.Cancel", func(_ dbctx.Context) error {
			return ConflictError("not queued")
		})
		if !domainagg.IsCode(err, domainagg.CodeConflict) {
			t.Fatalf("expected conflict code, got=%v", err)
		}
		if len(hooks.Conflicts) != 1 || hooks.Conflicts[0] != "Notification.Cancel" {
			t.Fatalf("conflict hooks: %+v", hooks.Conflicts)
		}
		if len(hooks.Retries) != 0 {
			t.Fatalf("retry hooks should be empty, got=%+v", hooks.Retries)
		}
	})

	t.Run("retryable exhausts attempts", func(t *testing.T) {
		hooks := &spyHooks{}
		calls := 0
		err := executeWrite(context.Background(), BaseDeps{
			Runner:       spyTxRunner{},
			Hooks:        hooks,
			RetryBackoff: time.Millisecond,
		}, "Progress.Target.CompleteDay", func(_ dbctx.Context) error {
			calls++
			return RetryableError("database is locked")
		})
		if !domainagg.IsCode(err, domainagg.CodeRetryable) {
			t.Fatalf("expected retryable code, got=%v", err)
		}
		if calls != defaultMaxAttempts {
			t.Fatalf("attempts: want=%d got=%d", defaultMaxAttempts, calls)
		}
		if len(hooks.Retries) != defaultMaxAttempts-1 {
			t.Fatalf("retry hooks: %+v", hooks.Retries)
		}
		if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(domainagg.CodeRetryable) {
			t.Fatalf("unexpected op status: %+v", hooks.Operations)
		}
	})

	t.Run("retryable then success", func(t *testing.T) {
		hooks := &spyHooks{}
		calls := 0
		err := executeWrite(context.Background(), BaseDeps{
			Runner:       spyTxRunner{},
			Hooks:        hooks,
			RetryBackoff: time.Millisecond,
		}, "Progress.Target.SkipDay", func(_ dbctx.Context) error {
			calls++
			if calls == 1 {
				return errors.New("database is locked")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("second attempt should succeed: %v", err)
		}
		if calls != 2 || len(hooks.Retries) != 1 {
			t.Fatalf("calls=%d retries=%v", calls, hooks.Retries)
		}
		if hooks.Operations[0].Status != "success" {
			t.Fatalf("status: want=success got=%s", hooks.Operations[0].Status)
		}
	})

	t.Run("cancelled context is not retried", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		_ = executeWrite(ctx, BaseDeps{Runner: spyTxRunner{}}, "op", func(_ dbctx.Context) error {
			calls++
			return ctx.Err()
		})
		if calls != 1 {
			t.Fatalf("attempts: want=1 got=%d", calls)
		}
	})
}

func TestAggregateErrorStatus(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := aggregateErrorStatus(InvariantError("x")); got != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("invariant status: got=%s", got)
	}
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodeRetryable) {
		t.Fatalf("deadline status: got=%s", got)
	}
}

func TestLogHooksCounts(t *testing.T) {
	log, _ := logger.New("test")
	h := NewLogHooks(log)
	h.ObserveOperation("op", "success", time.Millisecond)
	h.IncConflict("op")
	h.IncConflict("op")
	h.IncRetry("op")
	conflicts, retries := h.Counts("op")
	if conflicts != 2 || retries != 1 {
		t.Fatalf("counts: want=2/1 got=%d/%d", conflicts, retries)
	}
	if c, r := h.Counts("other"); c != 0 || r != 0 {
		t.Fatalf("other op: got=%d/%d", c, r)
	}
}

func TestMultiHooksFansOut(t *testing.T) {
	a, b := &spyHooks{}, &spyHooks{}
	h := MultiHooks(a, nil, b)
	h.ObserveOperation("op", "success", time.Millisecond)
	h.IncConflict("op")
	h.IncRetry("op")
	for i, s := range []*spyHooks{a, b} {
		if len(s.Operations) != 1 || len(s.Conflicts) != 1 || len(s.Retries) != 1 {
			t.Fatalf("hook %d: %+v", i, s)
		}
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.Retries = append(h.Retries, name)
}
