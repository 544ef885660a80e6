package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

// TargetRepo scopes every single-row read by owner. A target that exists but
// belongs to someone else is reported as gorm.ErrRecordNotFound.
type TargetRepo interface {
	Create(dbc dbctx.Context, targets []*types.Target) ([]*types.Target, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Target, error)
	GetByIDForUser(dbc dbctx.Context, userID, targetID uuid.UUID) (*types.Target, error)
	LockByIDForUser(dbc dbctx.Context, userID, targetID uuid.UUID) (*types.Target, error)
	Save(dbc dbctx.Context, target *types.Target) error
}

type targetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTargetRepo(db *gorm.DB, baseLog *logger.Logger) TargetRepo {
	repoLog := baseLog.With("repo", "TargetRepo")
	return &targetRepo{db: db, log: repoLog}
}

func (r *targetRepo) Create(dbc dbctx.Context, targets []*types.Target) ([]*types.Target, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(targets) == 0 {
		return []*types.Target{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *targetRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Target, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Target
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *targetRepo) GetByIDForUser(dbc dbctx.Context, userID, targetID uuid.UUID) (*types.Target, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Target
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", targetID, userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LockByIDForUser reads the row with SELECT ... FOR UPDATE. Call it inside a transaction.
func (r *targetRepo) LockByIDForUser(dbc dbctx.Context, userID, targetID uuid.UUID) (*types.Target, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Target
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", targetID, userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save overwrites the whole row.
func (r *targetRepo) Save(dbc dbctx.Context, target *types.Target) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Save(target).Error
}
