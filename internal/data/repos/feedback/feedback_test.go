package feedback

import (
	"context"
	"testing"

	"github.com/kajkor/kajkor-backend/internal/data/repos/testutil"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

func TestFeedbackRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewFeedbackRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "feedback@example.com")
	if _, err := repo.Create(dbc, []*types.Feedback{{UserID: u.ID, Message: "love it", Source: "mobile"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rows, err := repo.ListByUser(dbc, u.ID)
	if err != nil || len(rows) != 1 || rows[0].Message != "love it" {
		t.Fatalf("ListByUser: err=%v rows=%+v", err, rows)
	}
}
