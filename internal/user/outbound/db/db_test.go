package db

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql/pgsqltest"
)

func newTestDB(t *testing.T, ids ...int64) *DB {
	t.Helper()
	pool := pgsqltest.Postgres(t)
	for _, id := range ids {
		if _, err := pool.Exec(context.Background(),
			`INSERT INTO accounts (id, email, name) VALUES ($1, $2, $3)`,
			id, "u"+strconv.FormatInt(id, 10)+"@gosocial.test", "User"); err != nil {
			t.Fatalf("seed account: %v", err)
		}
	}
	return NewDB(pool, instrument.NewNoop())
}

func TestDB_RecordViewKeepsLastFive(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t, 1, 2)
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	// Act
	var last []time.Time
	for i := range 7 {
		view, err := db.RecordView(ctx, 1, 2, base.Add(time.Duration(i)*time.Minute), 5)
		if err != nil {
			t.Fatalf("RecordView() error = %v", err)
		}
		if view.TotalViews != int64(i+1) {
			t.Fatalf("TotalViews = %d, want %d", view.TotalViews, i+1)
		}
		last = view.ViewedAt
	}

	// Assert
	if len(last) != 5 {
		t.Fatalf("len(ViewedAt) = %d, want 5", len(last))
	}
	if !last[0].Equal(base.Add(2*time.Minute)) || !last[4].Equal(base.Add(6*time.Minute)) {
		t.Fatalf("unexpected history: %v", last)
	}
}

func TestDB_ToggleFriendIsSymmetric(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1, 2)

	added, err := db.ToggleFriend(ctx, 2, 1)
	if err != nil || !added {
		t.Fatalf("ToggleFriend() = %v, %v", added, err)
	}

	for _, id := range []int64{1, 2} {
		friends, err := db.ListFriends(ctx, id)
		if err != nil {
			t.Fatalf("ListFriends() error = %v", err)
		}
		if len(friends) != 1 || friends[0].ID == id {
			t.Fatalf("friends of %d = %+v", id, friends)
		}
	}

	added, err = db.ToggleFriend(ctx, 1, 2)
	if err != nil || added {
		t.Fatalf("second ToggleFriend() = %v, %v", added, err)
	}
	friends, err := db.ListFriends(ctx, 1)
	if err != nil || len(friends) != 0 {
		t.Fatalf("ListFriends() after removal = %+v, %v", friends, err)
	}
}

func TestDB_Blocks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1, 2)

	if err := db.Block(ctx, 1, 2); err != nil {
		t.Fatalf("Block() error = %v", err)
	}
	if err := db.Block(ctx, 1, 2); !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("second Block() error = %v, want conflict", err)
	}

	ok, err := db.IsBlocked(ctx, 1, 2)
	if err != nil || !ok {
		t.Fatalf("IsBlocked(1,2) = %v, %v", ok, err)
	}
	ok, err = db.IsBlocked(ctx, 2, 1)
	if err != nil || ok {
		t.Fatalf("IsBlocked(2,1) = %v, %v", ok, err)
	}

	if err := db.Unblock(ctx, 1, 2); err != nil {
		t.Fatalf("Unblock() error = %v", err)
	}
	if err := db.Unblock(ctx, 1, 2); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("second Unblock() error = %v, want not found", err)
	}
}

func TestDB_SwapEmail(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1)
	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	if _, err := db.SwapEmail(ctx, 1, at); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("SwapEmail() without temp email error = %v", err)
	}

	if err := db.SetTempEmail(ctx, 1, "new@gosocial.test"); err != nil {
		t.Fatalf("SetTempEmail() error = %v", err)
	}
	email, err := db.SwapEmail(ctx, 1, at)
	if err != nil || email != "new@gosocial.test" {
		t.Fatalf("SwapEmail() = %q, %v", email, err)
	}

	acc, err := db.GetAccount(ctx, 1)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if acc.Email != "new@gosocial.test" || acc.TempEmail != "" {
		t.Fatalf("unexpected account: %+v", acc)
	}
}
