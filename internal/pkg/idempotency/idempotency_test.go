package idempotency

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql/pgsqltest"
)

func TestRedis_Exec(t *testing.T) {
	idem := New(pgsqltest.Redis(t))
	ctx := context.Background()
	calls := 0
	work := func(context.Context) error {
		calls++
		return nil
	}

	// Act
	first := idem.Exec(ctx, "msg-1", work)
	second := idem.Exec(ctx, "msg-1", work)

	// Assert
	if first != nil {
		t.Fatalf("first Exec() error = %v", first)
	}
	if !errors.Is(second, ErrCompleted) {
		t.Fatalf("second Exec() error = %v, want ErrCompleted", second)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRedis_ExecFailed(t *testing.T) {
	idem := New(pgsqltest.Redis(t))
	ctx := context.Background()
	errBoom := errors.New("boom")

	if err := idem.Exec(ctx, "msg-2", func(context.Context) error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("Exec() error = %v, want boom", err)
	}
	if err := idem.Exec(ctx, "msg-2", func(context.Context) error { return nil }); !errors.Is(err, ErrFailed) {
		t.Fatalf("Exec() error = %v, want ErrFailed", err)
	}
	if err := idem.Exec(ctx, "msg-2", func(context.Context) error { return nil }, WithRetryFailed()); err != nil {
		t.Fatalf("Exec(retry) error = %v", err)
	}
}
