package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("post.outbound.db").Start(ctx, name)
}

// attachments keeps the JSONB column an array even when there are none.
func attachments(atts []upload.Attachment) []upload.Attachment {
	if atts == nil {
		return []upload.Attachment{}
	}
	return atts
}

// toggle deletes the like row when present and inserts it otherwise,
// reporting whether the row now exists.
func (s *DB) toggle(ctx context.Context, deleteSQL, insertSQL string, args ...any) (liked bool, err error) {
	err = pgsql.WithTx(ctx, s.conn, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteSQL, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		liked = true
		_, err = tx.Exec(ctx, insertSQL, args...)
		return err
	})
	return liked, err
}
