package feedback

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	Create(dbc dbctx.Context, rows []*types.Feedback) ([]*types.Feedback, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

func (r *feedbackRepo) Create(dbc dbctx.Context, rows []*types.Feedback) ([]*types.Feedback, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Feedback{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *feedbackRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Feedback, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Feedback
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
