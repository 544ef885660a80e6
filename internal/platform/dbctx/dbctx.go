package dbctx

import (
	"context"

	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
)

// Context is what every repo and aggregate method receives: the request
// context plus the transaction to run in, if any.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// New is a Context outside any transaction.
func New(ctx context.Context) Context {
	return Context{Ctx: ctxutil.Default(ctx)}
}

// WithTx returns a copy bound to tx.
func (c Context) WithTx(tx *gorm.DB) Context {
	c.Tx = tx
	return c
}

// InTx reports whether a transaction is attached.
func (c Context) InTx() bool { return c.Tx != nil }

// DB picks the attached transaction over fallback and binds Ctx to it.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := fallback
	if c.InTx() {
		db = c.Tx
	}
	return db.WithContext(ctxutil.Default(c.Ctx))
}
