package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

// UserTokenRepo stores issued sessions. A row is one access/refresh pair.
type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error)
	DeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, userID uuid.UUID, before time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}
	if err := dbc.DB(r.db).Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func (r *userTokenRepo) GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error) {
	return r.findIn(dbc, "access_token", accessTokens)
}

func (r *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	return r.findIn(dbc, "refresh_token", refreshTokens)
}

func (r *userTokenRepo) findIn(dbc dbctx.Context, column string, values []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	if len(values) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where(column+" IN ?", values).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userTokenRepo) DeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	if len(tokenIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", tokenIDs).Delete(&types.UserToken{}).Error
}

// DeleteExpired removes the user's sessions that expired before the cutoff.
func (r *userTokenRepo) DeleteExpired(dbc dbctx.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	res := dbc.DB(r.db).
		Where("user_id = ? AND expires_at < ?", userID, cutoff).
		Delete(&types.UserToken{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.log.Debug("Purged expired sessions", "user_id", userID, "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
