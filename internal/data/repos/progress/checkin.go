package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type CheckinRepo interface {
	Upsert(dbc dbctx.Context, checkin *types.Checkin) error
	ListByTarget(dbc dbctx.Context, targetID uuid.UUID) ([]*types.Checkin, error)
}

type checkinRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCheckinRepo(db *gorm.DB, baseLog *logger.Logger) CheckinRepo {
	repoLog := baseLog.With("repo", "CheckinRepo")
	return &checkinRepo{db: db, log: repoLog}
}

// Upsert keeps one row per (target_id, date); a later outcome on the same date replaces the earlier one.
func (r *checkinRepo) Upsert(dbc dbctx.Context, checkin *types.Checkin) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if checkin == nil {
		return nil
	}
	if checkin.ID == uuid.Nil {
		checkin.ID = uuid.New()
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "target_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "done_value", "notes", "updated_at"}),
		}).
		Create(checkin).Error
}

func (r *checkinRepo) ListByTarget(dbc dbctx.Context, targetID uuid.UUID) ([]*types.Checkin, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Checkin
	if err := transaction.WithContext(dbc.Ctx).
		Where("target_id = ?", targetID).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
