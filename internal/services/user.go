package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	UpdateName(dbc dbctx.Context, name string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		us.log.Warn("User id not set in request data")
		return nil, apierr.Unauthorized(errUnauthorizedUser)
	}
	found, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, internalError(us.log, "user.get_me", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.Missing("User not found")
	}
	return found[0], nil
}

func (us *userService) UpdateName(dbc dbctx.Context, name string) (*types.User, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errUnauthorizedUser)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("Name is required")
	}
	if err := us.userRepo.UpdateName(dbc, userID, name); err != nil {
		return nil, internalError(us.log, "user.update_name", err)
	}
	return us.GetMe(dbc)
}
