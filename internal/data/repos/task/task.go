package task

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type TaskRepo interface {
	Create(dbc dbctx.Context, tasks []*types.Task) ([]*types.Task, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, date string) ([]*types.Task, error)
	GetByIDForUser(dbc dbctx.Context, userID, taskID uuid.UUID) (*types.Task, error)
	Save(dbc dbctx.Context, task *types.Task) error
	DeleteByIDForUser(dbc dbctx.Context, userID, taskID uuid.UUID) (bool, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (open int64, done int64, err error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

func (r *taskRepo) Create(dbc dbctx.Context, tasks []*types.Task) ([]*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(tasks) == 0 {
		return []*types.Task{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByUser returns the user's tasks, optionally limited to one YYYY-MM-DD date.
func (r *taskRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, date string) ([]*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Task
	q := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if err := q.Order("date ASC").Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taskRepo) GetByIDForUser(dbc dbctx.Context, userID, taskID uuid.UUID) (*types.Task, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Task
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *taskRepo) Save(dbc dbctx.Context, task *types.Task) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Save(task).Error
}

func (r *taskRepo) DeleteByIDForUser(dbc dbctx.Context, userID, taskID uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&types.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *taskRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []struct {
		IsCompleted bool
		N           int64
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Task{}).
		Select("is_completed, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("is_completed").
		Scan(&rows).Error; err != nil {
		return 0, 0, err
	}
	var open, done int64
	for _, row := range rows {
		if row.IsCompleted {
			done += row.N
		} else {
			open += row.N
		}
	}
	return open, done, nil
}
