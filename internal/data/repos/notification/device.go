package notification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type UserDeviceRepo interface {
	Upsert(dbc dbctx.Context, device *types.UserDevice) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserDevice, error)
}

type userDeviceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserDeviceRepo(db *gorm.DB, baseLog *logger.Logger) UserDeviceRepo {
	repoLog := baseLog.With("repo", "UserDeviceRepo")
	return &userDeviceRepo{db: db, log: repoLog}
}

// Upsert keys devices by FCM token; re-registering a token moves it to the caller.
func (r *userDeviceRepo) Upsert(dbc dbctx.Context, device *types.UserDevice) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if device == nil {
		return nil
	}
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fcm_token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "last_seen_at", "updated_at"}),
		}).
		Create(device).Error
}

func (r *userDeviceRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserDevice, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserDevice
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("last_seen_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
