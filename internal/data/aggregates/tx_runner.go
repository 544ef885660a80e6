package aggregates

import (
	"context"

	"gorm.io/gorm"

	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

// TxRunner owns the transaction boundary of one aggregate write attempt.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// gormTxRunner opens a transaction per attempt. Given a *gorm.DB that is
// already a transaction, gorm nests with a savepoint.
type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return gormTxRunner{db: db}
}

func (r gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	switch {
	case fn == nil:
		return nil
	case r.db == nil:
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.New(ctx).WithTx(tx))
	})
}
