package db

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/gosocial/internal/chat/entity"
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

func TestDB_AppendMessageConcurrentFirstMessages(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t, 1, 2)
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	// Act
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := entity.Message{ID: int64(100 + i), SenderID: 1, Body: "hi " + strconv.Itoa(i), CreatedAt: base.Add(time.Duration(i) * time.Second)}
			_, errs[i] = db.AppendMessage(ctx, int64(10+i), 1, 2, msg, 50)
		}()
	}
	wg.Wait()

	// Assert
	for i, err := range errs {
		if err != nil {
			t.Fatalf("AppendMessage(%d) error = %v", i, err)
		}
	}
	chat, err := db.GetChat(ctx, 1, 2, 50)
	if err != nil {
		t.Fatalf("GetChat() error = %v", err)
	}
	if len(chat.Messages) != 2 || chat.Messages[0].Body != "hi 0" {
		t.Fatalf("unexpected messages: %+v", chat.Messages)
	}
}

func TestDB_GetChatHistory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, 1, 2)
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	if _, err := db.GetChat(ctx, 1, 2, 10); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("GetChat() before any message error = %v", err)
	}

	for i := range 5 {
		msg := entity.Message{ID: int64(100 + i), SenderID: 2, Body: strconv.Itoa(i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if _, err := db.AppendMessage(ctx, 10, 1, 2, msg, 3); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	chat, err := db.GetChat(ctx, 1, 2, 3)
	if err != nil {
		t.Fatalf("GetChat() error = %v", err)
	}
	if chat.ID != 10 || len(chat.Messages) != 3 || chat.Messages[0].Body != "2" || chat.Messages[2].Body != "4" {
		t.Fatalf("unexpected chat: %+v", chat)
	}

	ok, err := db.AccountExists(ctx, 3)
	if err != nil || ok {
		t.Fatalf("AccountExists(3) = %v, %v", ok, err)
	}
}

func TestDB_AppendMessageMissingParticipant(t *testing.T) {
	// Arrange
	ctx := context.Background()
	db := newTestDB(t, 1)
	msg := entity.Message{ID: 1, SenderID: 1, Body: "hi", CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}

	// Act
	_, err := db.AppendMessage(ctx, 10, 1, 404, msg, 50)

	// Assert
	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("AppendMessage() error = %v, want ErrNotFound", err)
	}
}
