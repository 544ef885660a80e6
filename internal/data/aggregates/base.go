package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 25 * time.Millisecond
)

// BaseDeps is shared by every aggregate. Zero fields get defaults.
type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	Locks    *KeyedMutex
	Clock    clock.Clock
	CASGuard CASGuard

	// MaxAttempts bounds how often a write failing with CodeRetryable is run.
	MaxAttempts  int
	RetryBackoff time.Duration
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Locks == nil {
		d.Locks = NewKeyedMutex()
	}
	if d.Clock == nil {
		d.Clock = clock.System()
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.MaxAttempts <= 0 {
		d.MaxAttempts = defaultMaxAttempts
	}
	if d.RetryBackoff <= 0 {
		d.RetryBackoff = defaultRetryBackoff
	}
	return d
}

// executeWrite runs fn in a fresh transaction, retrying retryable failures
// with linear backoff. Hooks see one operation per call and one retry per
// extra attempt.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = "aggregate.write"
	}
	start := time.Now()

	var err error
	for attempt := 1; ; attempt++ {
		err = MapError(op, deps.Runner.InTx(ctx, fn))
		if !shouldRetry(ctx, err, attempt, deps.MaxAttempts) {
			break
		}
		deps.Hooks.IncRetry(op)
		if !sleepCtx(ctx, time.Duration(attempt)*deps.RetryBackoff) {
			break
		}
	}

	if domainagg.IsCode(err, domainagg.CodeConflict) {
		deps.Hooks.IncConflict(op)
	}
	deps.Hooks.ObserveOperation(op, aggregateErrorStatus(err), time.Since(start))
	return err
}

func shouldRetry(ctx context.Context, err error, attempt, max int) bool {
	return err != nil &&
		attempt < max &&
		ctx.Err() == nil &&
		domainagg.IsCode(err, domainagg.CodeRetryable)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// executeLocked serializes writes sharing key inside this process before
// entering executeWrite. Row locks still guard across processes.
func executeLocked(ctx context.Context, deps BaseDeps, key, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	unlock := deps.Locks.Lock(key)
	defer unlock()
	return executeWrite(ctx, deps, op, fn)
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	if code := domainagg.CodeOf(MapError("aggregate.status", err)); code != "" {
		return string(code)
	}
	return "failure"
}
