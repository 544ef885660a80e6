package notification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type UserNotificationSettingRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserNotificationSetting, error)
	Upsert(dbc dbctx.Context, setting *types.UserNotificationSetting) error
}

type userNotificationSettingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserNotificationSettingRepo(db *gorm.DB, baseLog *logger.Logger) UserNotificationSettingRepo {
	repoLog := baseLog.With("repo", "UserNotificationSettingRepo")
	return &userNotificationSettingRepo{db: db, log: repoLog}
}

// GetByUserID returns nil, nil when the user never saved settings.
func (r *userNotificationSettingRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserNotificationSetting, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.UserNotificationSetting
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *userNotificationSettingRepo) Upsert(dbc dbctx.Context, setting *types.UserNotificationSetting) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if setting == nil || setting.UserID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled",
				"preferred_time",
				"quiet_start",
				"quiet_end",
				"timezone",
				"updated_at",
			}),
		}).
		Create(setting).Error
}
