package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos/testutil"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/domain/notification"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

func TestNotificationRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNotificationRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "notify@example.com")
	other := testutil.SeedUser(t, ctx, tx, "notify-other@example.com")
	now := time.Now().UTC()

	rows, err := repo.Create(dbc, []*types.Notification{
		{UserID: u.ID, Type: notification.TypeReminder, Status: notification.StatusQueued, ScheduledAt: now},
		{UserID: u.ID, Type: notification.TypeStreak, Status: notification.StatusSent, ScheduledAt: now.Add(-time.Hour)},
	})
	if err != nil || len(rows) != 2 {
		t.Fatalf("Create: err=%v len=%d", err, len(rows))
	}
	if all, err := repo.ListByUser(dbc, u.ID, ""); err != nil || len(all) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(all))
	}
	queued, err := repo.ListByUser(dbc, u.ID, notification.StatusQueued)
	if err != nil || len(queued) != 1 || queued[0].Type != notification.TypeReminder {
		t.Fatalf("ListByUser queued: err=%v rows=%+v", err, queued)
	}
	if _, err := repo.GetByIDForUser(dbc, other.ID, rows[0].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign get: want ErrRecordNotFound got %v", err)
	}
}

func TestUserDeviceRepoUpsertByToken(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserDeviceRepo(db, testutil.Logger(t))

	a := testutil.SeedUser(t, ctx, tx, "device-a@example.com")
	b := testutil.SeedUser(t, ctx, tx, "device-b@example.com")
	now := time.Now().UTC()

	if err := repo.Upsert(dbc, &types.UserDevice{UserID: a.ID, FCMToken: "tok-1", Platform: notification.PlatformAndroid, LastSeenAt: now}); err != nil {
		t.Fatalf("Upsert a: %v", err)
	}
	if err := repo.Upsert(dbc, &types.UserDevice{UserID: b.ID, FCMToken: "tok-1", Platform: notification.PlatformIOS, LastSeenAt: now}); err != nil {
		t.Fatalf("Upsert b: %v", err)
	}
	if rows, _ := repo.ListByUser(dbc, a.ID); len(rows) != 0 {
		t.Fatalf("token should move away from a, got %d rows", len(rows))
	}
	rows, err := repo.ListByUser(dbc, b.ID)
	if err != nil || len(rows) != 1 || rows[0].Platform != notification.PlatformIOS {
		t.Fatalf("ListByUser b: err=%v rows=%+v", err, rows)
	}
}

func TestUserNotificationSettingRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserNotificationSettingRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "settings@example.com")
	if got, err := repo.GetByUserID(dbc, u.ID); err != nil || got != nil {
		t.Fatalf("GetByUserID before save: err=%v got=%+v", err, got)
	}
	if err := repo.Upsert(dbc, &types.UserNotificationSetting{UserID: u.ID, Enabled: true, Timezone: "Europe/Warsaw"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(dbc, &types.UserNotificationSetting{UserID: u.ID, Enabled: false, Timezone: "Asia/Tokyo", PreferredTime: "08:00"}); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	got, err := repo.GetByUserID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByUserID: err=%v", err)
	}
	if got.Enabled || got.Timezone != "Asia/Tokyo" || got.PreferredTime != "08:00" {
		t.Fatalf("unexpected setting: %+v", got)
	}

	other := testutil.SeedUser(t, ctx, tx, "settings-off@example.com")
	if err := repo.Upsert(dbc, &types.UserNotificationSetting{UserID: other.ID, Enabled: false}); err != nil {
		t.Fatalf("Upsert disabled: %v", err)
	}
	if got, err := repo.GetByUserID(dbc, other.ID); err != nil || got == nil || got.Enabled {
		t.Fatalf("disabled insert: err=%v got=%+v", err, got)
	}
}
