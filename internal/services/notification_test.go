package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/aggregates"
	"github.com/kajkor/kajkor-backend/internal/data/repos"
	repotest "github.com/kajkor/kajkor-backend/internal/data/repos/testutil"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/domain/notification"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
)

type spyNotifier struct {
	mu     sync.Mutex
	queued []*types.Notification
}

func (s *spyNotifier) Queued(_ context.Context, n *types.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = append(s.queued, n)
}

func (s *spyNotifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queued)
}

func newNotificationService(t *testing.T) (NotificationService, *spyNotifier, *gorm.DB) {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)
	clk := clock.NewFixed(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	notifications := repos.NewNotificationRepo(tx, log)
	spy := &spyNotifier{}
	svc := NewNotificationService(log, NotificationServiceDeps{
		Notifications: notifications,
		Devices:       repos.NewUserDeviceRepo(tx, log),
		Settings:      repos.NewUserNotificationSettingRepo(tx, log),
		Targets:       repos.NewTargetRepo(tx, log),
		Aggregate: aggregates.NewNotificationAggregate(aggregates.NotificationAggregateDeps{
			Base:          aggregates.BaseDeps{DB: tx, Log: log, Clock: clk},
			Notifications: notifications,
		}),
		Notifier: spy,
		Clock:    clk,
	})
	return svc, spy, tx
}

func TestNotificationSettings(t *testing.T) {
	svc, _, tx := newNotificationService(t)
	user := repotest.SeedUser(t, context.Background(), tx, "settings@example.com")
	ctx := authed(user.ID)

	got, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !got.Enabled || got.PreferredTime != "20:00" || got.Timezone != "UTC" {
		t.Fatalf("defaults: %+v", got)
	}

	_, err = svc.UpdateSettings(ctx, NotificationSettingsRequest{Timezone: "Mars/Olympus"})
	wantAPIError(t, err, http.StatusBadRequest, "validation")
	_, err = svc.UpdateSettings(ctx, NotificationSettingsRequest{QuietStart: "7pm"})
	wantAPIError(t, err, http.StatusBadRequest, "validation")

	off := false
	if _, err := svc.UpdateSettings(ctx, NotificationSettingsRequest{
		Enabled:       &off,
		PreferredTime: "07:30",
		QuietStart:    "22:00",
		QuietEnd:      "06:00",
		Timezone:      "Europe/Berlin",
	}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	got, err = svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.Enabled || got.PreferredTime != "07:30" || got.Timezone != "Europe/Berlin" {
		t.Fatalf("stored: %+v", got)
	}
}

func TestNotificationSettingsCanBeDisabled(t *testing.T) {
	svc, _, tx := newNotificationService(t)
	user := repotest.SeedUser(t, context.Background(), tx, "mute@example.com")
	ctx := authed(user.ID)
	on, off := true, false

	if _, err := svc.UpdateSettings(ctx, NotificationSettingsRequest{Enabled: &on}); err != nil {
		t.Fatalf("enable: %v", err)
	}
	returned, err := svc.UpdateSettings(ctx, NotificationSettingsRequest{Enabled: &off})
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if returned.Enabled {
		t.Fatalf("returned enabled: want=false got=true")
	}
	stored, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if stored.Enabled {
		t.Fatalf("stored enabled on existing row: want=false got=true")
	}

	fresh := repotest.SeedUser(t, context.Background(), tx, "mute-first@example.com")
	if _, err := svc.UpdateSettings(authed(fresh.ID), NotificationSettingsRequest{Enabled: &off}); err != nil {
		t.Fatalf("disable on first save: %v", err)
	}
	if got, err := svc.GetSettings(authed(fresh.ID)); err != nil || got.Enabled {
		t.Fatalf("stored enabled on first save: err=%v got=%+v", err, got)
	}
}

func TestRegisterDeviceValidatesPlatform(t *testing.T) {
	svc, _, tx := newNotificationService(t)
	user := repotest.SeedUser(t, context.Background(), tx, "device@example.com")
	ctx := authed(user.ID)

	_, err := svc.RegisterDevice(ctx, RegisterDeviceRequest{FCMToken: "tok", Platform: "web"})
	wantAPIError(t, err, http.StatusBadRequest, "validation")
	_, err = svc.RegisterDevice(ctx, RegisterDeviceRequest{Platform: "ios"})
	wantAPIError(t, err, http.StatusBadRequest, "validation")

	device, err := svc.RegisterDevice(ctx, RegisterDeviceRequest{FCMToken: "tok-1", Platform: "Android"})
	if err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}
	if device.Platform != notification.PlatformAndroid || device.UserID != user.ID {
		t.Fatalf("device: %+v", device)
	}
}

func TestQueueReminderThenCancel(t *testing.T) {
	svc, spy, tx := newNotificationService(t)
	bg := context.Background()
	user := repotest.SeedUser(t, bg, tx, "remind@example.com")
	target := repotest.SeedTarget(t, bg, tx, user.ID, 5)
	ctx := authed(user.ID)

	_, err := svc.QueueReminder(ctx, ReminderRequest{})
	wantAPIError(t, err, http.StatusBadRequest, "validation")

	missing := uuid.New()
	at := time.Date(2024, 5, 11, 20, 0, 0, 0, time.UTC)
	_, err = svc.QueueReminder(ctx, ReminderRequest{TargetID: &missing, ScheduledAt: OptionalTime{Set: true, Value: &at}})
	wantAPIError(t, err, http.StatusNotFound, "not_found")

	row, err := svc.QueueReminder(ctx, ReminderRequest{TargetID: &target.ID, ScheduledAt: OptionalTime{Set: true, Value: &at}})
	if err != nil {
		t.Fatalf("QueueReminder: %v", err)
	}
	if row.Type != notification.TypeReminder || row.Status != notification.StatusQueued || row.Title == "" {
		t.Fatalf("reminder: %+v", row)
	}
	if spy.count() != 1 {
		t.Fatalf("published: want=1 got=%d", spy.count())
	}

	list, err := svc.List(ctx, notification.StatusQueued)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != row.ID {
		t.Fatalf("list: want the reminder got %d rows", len(list))
	}

	cancelled, err := svc.Cancel(ctx, row.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != notification.StatusCancelled {
		t.Fatalf("status: want=cancelled got=%s", cancelled.Status)
	}
	_, err = svc.Cancel(ctx, row.ID)
	wantAPIError(t, err, http.StatusBadRequest, "conflict")

	other := repotest.SeedUser(t, bg, tx, "stranger@example.com")
	_, err = svc.Cancel(authed(other.ID), row.ID)
	wantAPIError(t, err, http.StatusNotFound, "not_found")
}
