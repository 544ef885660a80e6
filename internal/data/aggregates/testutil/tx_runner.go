package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/aggregates"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

// InjectedTxRunner is an aggregates.TxRunner with failure injection.
//
// With DB set the body runs in a real (nested) transaction, so an injected
// commit failure also discards the body's writes. FailCommitTimes limits
// FailCommit to the first N attempts; zero means every attempt fails.
type InjectedTxRunner struct {
	DB *gorm.DB

	FailBegin       error
	FailCommit      error
	FailCommitTimes int

	mu            sync.Mutex
	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	beginErr, commitErr := r.begin()
	if beginErr != nil {
		return beginErr
	}

	attempt := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return commitErr
	}

	base := dbctx.New(ctx)
	var err error
	if r.DB == nil {
		err = attempt(base)
	} else {
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return attempt(base.WithTx(tx))
		})
	}

	r.finish(err == nil)
	return err
}

// begin counts the attempt and decides which injected errors apply to it.
func (r *InjectedTxRunner) begin() (beginErr, commitErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.BeginCalls++
	if r.FailBegin != nil {
		return r.FailBegin, nil
	}
	if r.FailCommit != nil && (r.FailCommitTimes == 0 || r.BeginCalls <= r.FailCommitTimes) {
		return nil, r.FailCommit
	}
	return nil, nil
}

func (r *InjectedTxRunner) finish(committed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if committed {
		r.CommitCalls++
	} else {
		r.RollbackCalls++
	}
}
