package aggregates

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

// CASGuard moves status columns with compare-and-set updates so two writers
// cannot both win the same transition.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

// StatusTransition moves row ID of Table from any status in From to To.
type StatusTransition struct {
	Table string
	ID    uuid.UUID
	From  []string
	To    string
	At    time.Time
}

func (tr StatusTransition) validate() error {
	switch {
	case strings.TrimSpace(tr.Table) == "", tr.ID == uuid.Nil:
		return ValidationError("status transition needs a table and id")
	case len(tr.From) == 0, strings.TrimSpace(tr.To) == "":
		return ValidationError("status transition needs from and to statuses")
	}
	return nil
}

// Transition applies tr. A row that is not in From yields a conflict carrying
// conflictMsg; the caller decides whether that message reaches the client.
func (g CASGuard) Transition(dbc dbctx.Context, tr StatusTransition, conflictMsg string) error {
	if err := tr.validate(); err != nil {
		return err
	}
	db := dbc.Tx
	if db == nil {
		db = g.db
	}
	if db == nil {
		return ValidationError("missing db transaction context")
	}
	updates := map[string]any{"status": tr.To}
	if !tr.At.IsZero() {
		updates["updated_at"] = tr.At
	}
	res := db.WithContext(dbc.Ctx).
		Table(tr.Table).
		Where("id = ? AND status IN ?", tr.ID, tr.From).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ConflictError(conflictMsg)
	}
	return nil
}
