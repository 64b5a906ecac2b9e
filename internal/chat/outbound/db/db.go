package db

import (
	"context"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gosocial/internal/chat/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
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
	return s.ins.Tracer("chat.outbound.db").Start(ctx, name)
}

func (s *DB) AccountExists(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AccountExists")
	defer func() { pgsql.EndSpan(span, err) }()

	var ok bool
	err = s.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1 AND deleted_at IS NULL)`, id).Scan(&ok)
	return ok, pgsql.MapError(err)
}

// AppendMessage upserts the chat row so concurrent first messages share one
// chat, then inserts msg.
func (s *DB) AppendMessage(ctx context.Context, newChatID, low, high int64, msg entity.Message, history int) (_ *entity.Chat, err error) {
	ctx, span := s.startSpan(ctx, "AppendMessage")
	defer func() { pgsql.EndSpan(span, err) }()

	var chat *entity.Chat
	err = pgsql.WithTx(ctx, s.conn, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO chats (id, low_id, high_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (low_id, high_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
			RETURNING id, low_id, high_id, created_at, updated_at`,
			newChatID, low, high, msg.CreatedAt)
		c, err := scanChat(row)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO chat_messages (id, chat_id, sender_id, body, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			msg.ID, c.ID, msg.SenderID, msg.Body, msg.CreatedAt); err != nil {
			return err
		}

		c.Messages, err = recentMessages(ctx, tx, c.ID, history)
		chat = c
		return err
	})
	if err != nil {
		return nil, pgsql.MapError(err)
	}
	return chat, nil
}

func (s *DB) GetChat(ctx context.Context, low, high int64, history int) (_ *entity.Chat, err error) {
	ctx, span := s.startSpan(ctx, "GetChat")
	defer func() { pgsql.EndSpan(span, err) }()

	chat, err := scanChat(s.conn.QueryRow(ctx, `
		SELECT id, low_id, high_id, created_at, updated_at
		FROM chats WHERE low_id = $1 AND high_id = $2`, low, high))
	if err != nil {
		return nil, pgsql.MapError(err)
	}

	chat.Messages, err = recentMessages(ctx, s.conn, chat.ID, history)
	if err != nil {
		return nil, pgsql.MapError(err)
	}
	return chat, nil
}

func scanChat(row pgx.Row) (*entity.Chat, error) {
	var c entity.Chat
	if err := row.Scan(&c.ID, &c.LowID, &c.HighID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// recentMessages returns the last limit messages of a chat, oldest first.
func recentMessages(ctx context.Context, q pgsql.Querier, chatID int64, limit int) ([]entity.Message, error) {
	rows, err := q.Query(ctx, `
		SELECT id, chat_id, sender_id, body, created_at
		FROM chat_messages WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, chatID, limit)
	if err != nil {
		return nil, err
	}

	msgs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.Message])
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}
