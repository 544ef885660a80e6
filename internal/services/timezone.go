package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

// LocationResolver decides the calendar a user's days are counted in.
type LocationResolver interface {
	Location(dbc dbctx.Context, userID uuid.UUID) *time.Location
}

type settingsLocationResolver struct {
	settings repos.UserNotificationSettingRepo
	fallback *time.Location
	log      *logger.Logger
}

// NewLocationResolver reads the user's stored timezone and falls back to def.
func NewLocationResolver(settings repos.UserNotificationSettingRepo, def *time.Location, log *logger.Logger) LocationResolver {
	if def == nil {
		def = time.UTC
	}
	return &settingsLocationResolver{settings: settings, fallback: def, log: log.With("service", "LocationResolver")}
}

func (r *settingsLocationResolver) Location(dbc dbctx.Context, userID uuid.UUID) *time.Location {
	if r.settings == nil || userID == uuid.Nil {
		return r.fallback
	}
	setting, err := r.settings.GetByUserID(dbc, userID)
	if err != nil {
		r.log.Warn("Timezone lookup failed, using default", "user_id", userID, "error", err)
		return r.fallback
	}
	if setting == nil || strings.TrimSpace(setting.Timezone) == "" {
		return r.fallback
	}
	loc, err := time.LoadLocation(strings.TrimSpace(setting.Timezone))
	if err != nil {
		r.log.Warn("Stored timezone is invalid, using default", "user_id", userID, "timezone", setting.Timezone)
		return r.fallback
	}
	return loc
}
