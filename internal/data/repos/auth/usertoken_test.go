package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/data/repos/testutil"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo@example.com")

	makeToken := func(access, refresh string, exp time.Time) *types.UserToken {
		return &types.UserToken{
			ID:           uuid.New(),
			UserID:       u.ID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    exp,
		}
	}

	t1 := makeToken("access-1", "refresh-1", time.Now().Add(time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t1}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rows, err := repo.GetByAccessTokens(dbc, []string{t1.AccessToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByAccessTokens: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByRefreshTokens(dbc, []string{t1.RefreshToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByRefreshTokens: err=%v len=%d", err, len(rows))
	}

	if err := repo.DeleteByIDs(dbc, []uuid.UUID{t1.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByAccessTokens(dbc, []string{t1.AccessToken}); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByIDs: err=%v len=%d", err, len(rows))
	}

	t2 := makeToken("access-2", "refresh-2", time.Now().Add(-time.Hour))
	t3 := makeToken("access-3", "refresh-3", time.Now().Add(time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t2, t3}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	if n, err := repo.DeleteExpired(dbc, uuid.New(), time.Now()); err != nil || n != 0 {
		t.Fatalf("DeleteExpired for another user: err=%v n=%d", err, n)
	}
	n, err := repo.DeleteExpired(dbc, u.ID, time.Now())
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpired: err=%v n=%d", err, n)
	}
	if rows, _ := repo.GetByRefreshTokens(dbc, []string{"refresh-2", "refresh-3"}); len(rows) != 1 || rows[0].ID != t3.ID {
		t.Fatalf("after DeleteExpired: want only refresh-3 got %d rows", len(rows))
	}
}
