package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

func TestMapError(t *testing.T) {
	other := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: goerror.ErrNotFound},
		{name: "unique", in: &pgconn.PgError{Code: "23505"}, want: goerror.ErrConflict},
		{name: "foreign key", in: &pgconn.PgError{Code: "23503"}, want: goerror.ErrNotFound},
		{name: "other pg", in: &pgconn.PgError{Code: "42601"}, want: nil},
		{name: "other", in: other, want: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in)
			if tt.want == nil {
				if tt.in == nil && got != nil {
					t.Fatalf("MapError() = %v, want nil", got)
				}
				if tt.in != nil && got != tt.in {
					t.Fatalf("MapError() = %v, want untouched %v", got, tt.in)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAffected(t *testing.T) {
	if err := Affected(pgconn.NewCommandTag("UPDATE 0"), nil); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("Affected(0) = %v", err)
	}
	if err := Affected(pgconn.NewCommandTag("UPDATE 1"), nil); err != nil {
		t.Fatalf("Affected(1) = %v", err)
	}
}
