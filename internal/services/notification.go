package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/domain/notification"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

const (
	defaultReminderTime  = "20:00"
	defaultReminderTitle = "Daily reminder"
	defaultReminderBody  = "Check today's tasks and update your progress."

	msgNotificationNotFound = "Notification not found"
)

type NotificationSettingsRequest struct {
	Enabled       *bool  `json:"enabled"`
	PreferredTime string `json:"preferredTime"`
	QuietStart    string `json:"quietStart"`
	QuietEnd      string `json:"quietEnd"`
	Timezone      string `json:"timezone"`
}

type RegisterDeviceRequest struct {
	FCMToken string `json:"fcmToken"`
	Platform string `json:"platform"`
}

type ReminderRequest struct {
	TargetID    *uuid.UUID   `json:"targetId"`
	ScheduledAt OptionalTime `json:"scheduledAt"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
}

type NotificationService interface {
	GetSettings(ctx context.Context) (*types.UserNotificationSetting, error)
	UpdateSettings(ctx context.Context, req NotificationSettingsRequest) (*types.UserNotificationSetting, error)
	RegisterDevice(ctx context.Context, req RegisterDeviceRequest) (*types.UserDevice, error)
	List(ctx context.Context, status string) ([]*types.Notification, error)
	QueueReminder(ctx context.Context, req ReminderRequest) (*types.Notification, error)
	Cancel(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error)
}

type notificationService struct {
	log           *logger.Logger
	notifications repos.NotificationRepo
	devices       repos.UserDeviceRepo
	settings      repos.UserNotificationSettingRepo
	targets       repos.TargetRepo
	aggregate     domainagg.NotificationAggregate
	notifier      NotificationNotifier
	defaultTZ     string
	clock         clock.Clock
}

type NotificationServiceDeps struct {
	Notifications repos.NotificationRepo
	Devices       repos.UserDeviceRepo
	Settings      repos.UserNotificationSettingRepo
	Targets       repos.TargetRepo
	Aggregate     domainagg.NotificationAggregate
	Notifier      NotificationNotifier
	DefaultTZ     string
	Clock         clock.Clock
}

func NewNotificationService(log *logger.Logger, deps NotificationServiceDeps) NotificationService {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if strings.TrimSpace(deps.DefaultTZ) == "" {
		deps.DefaultTZ = "UTC"
	}
	return &notificationService{
		log:           log.With("service", "NotificationService"),
		notifications: deps.Notifications,
		devices:       deps.Devices,
		settings:      deps.Settings,
		targets:       deps.Targets,
		aggregate:     deps.Aggregate,
		notifier:      deps.Notifier,
		defaultTZ:     deps.DefaultTZ,
		clock:         deps.Clock,
	}
}

func (s *notificationService) owner(ctx context.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized(errUnauthorizedUser)
	}
	return userID, nil
}

func (s *notificationService) defaults(userID uuid.UUID) *types.UserNotificationSetting {
	return &types.UserNotificationSetting{
		UserID:        userID,
		Enabled:       true,
		PreferredTime: defaultReminderTime,
		Timezone:      s.defaultTZ,
	}
}

func (s *notificationService) GetSettings(ctx context.Context) (*types.UserNotificationSetting, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.settings.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, internalError(s.log, "notification.settings.get", err)
	}
	if row == nil {
		return s.defaults(userID), nil
	}
	return row, nil
}

func (s *notificationService) UpdateSettings(ctx context.Context, req NotificationSettingsRequest) (*types.UserNotificationSetting, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range []string{req.PreferredTime, req.QuietStart, req.QuietEnd} {
		if v = strings.TrimSpace(v); v != "" && !validClock(v) {
			return nil, apierr.Validation("Times must be HH:MM")
		}
	}
	tz := strings.TrimSpace(req.Timezone)
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, apierr.Validation("Unknown timezone")
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.settings.GetByUserID(dbc, userID)
	if err != nil {
		return nil, internalError(s.log, "notification.settings.update", err)
	}
	now := s.clock.Now().UTC()
	if row == nil {
		row = s.defaults(userID)
		row.CreatedAt = now
	}
	if req.Enabled != nil {
		row.Enabled = *req.Enabled
	}
	row.PreferredTime = strings.TrimSpace(req.PreferredTime)
	row.QuietStart = strings.TrimSpace(req.QuietStart)
	row.QuietEnd = strings.TrimSpace(req.QuietEnd)
	if tz != "" {
		row.Timezone = tz
	}
	row.UpdatedAt = now
	if err := s.settings.Upsert(dbc, row); err != nil {
		return nil, internalError(s.log, "notification.settings.update", err)
	}
	return row, nil
}

func (s *notificationService) RegisterDevice(ctx context.Context, req RegisterDeviceRequest) (*types.UserDevice, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(req.FCMToken)
	if token == "" {
		return nil, apierr.Validation("fcmToken is required")
	}
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if platform != notification.PlatformAndroid && platform != notification.PlatformIOS {
		return nil, apierr.Validation("platform must be android or ios")
	}
	now := s.clock.Now().UTC()
	device := &types.UserDevice{
		UserID:     userID,
		FCMToken:   token,
		Platform:   platform,
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.devices.Upsert(dbctx.Context{Ctx: ctx}, device); err != nil {
		return nil, internalError(s.log, "notification.device.register", err)
	}
	return device, nil
}

func (s *notificationService) List(ctx context.Context, status string) ([]*types.Notification, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.notifications.ListByUser(dbctx.Context{Ctx: ctx}, userID, strings.TrimSpace(status))
	if err != nil {
		return nil, internalError(s.log, "notification.list", err)
	}
	if rows == nil {
		rows = []*types.Notification{}
	}
	return rows, nil
}

func (s *notificationService) QueueReminder(ctx context.Context, req ReminderRequest) (*types.Notification, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	if req.ScheduledAt.Value == nil {
		return nil, apierr.Validation("scheduledAt is required")
	}
	dbc := dbctx.Context{Ctx: ctx}
	if req.TargetID != nil && *req.TargetID != uuid.Nil {
		if _, err := s.targets.GetByIDForUser(dbc, userID, *req.TargetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.Missing(msgTargetNotFound)
			}
			return nil, internalError(s.log, "notification.reminder", err)
		}
	} else {
		req.TargetID = nil
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultReminderTitle
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		body = defaultReminderBody
	}
	payload := map[string]any{}
	if req.TargetID != nil {
		payload["targetId"] = req.TargetID.String()
	}
	raw, _ := json.Marshal(payload)

	now := s.clock.Now().UTC()
	row := &types.Notification{
		UserID:      userID,
		TargetID:    req.TargetID,
		Type:        notification.TypeReminder,
		Status:      notification.StatusQueued,
		Title:       title,
		Body:        body,
		ScheduledAt: req.ScheduledAt.Value.UTC(),
		Payload:     datatypes.JSON(raw),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.notifications.Create(dbc, []*types.Notification{row}); err != nil {
		return nil, internalError(s.log, "notification.reminder", err)
	}
	if s.notifier != nil {
		s.notifier.Queued(ctx, row)
	}
	return row, nil
}

func (s *notificationService) Cancel(ctx context.Context, notificationID uuid.UUID) (*types.Notification, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.aggregate.Cancel(ctx, domainagg.CancelNotificationInput{
		UserID:         userID,
		NotificationID: notificationID,
		At:             s.clock.Now().UTC(),
	})
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeConflict) {
			return nil, apierr.BadRequest("conflict", errors.New(domainagg.MessageOf(err)))
		}
		return nil, apiErrorFromAggregate(s.log, "notification.cancel", err, msgNotificationNotFound)
	}
	return row, nil
}
