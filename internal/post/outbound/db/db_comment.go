package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
)

const commentColumns = `c.id, c.post_id, c.author_id, c.content, c.attachments, c.is_deleted,
	COALESCE(c.deleted_by, 0), c.created_at, c.updated_at`

func scanComment(row pgx.Row) (*entity.Comment, error) {
	var c entity.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.Attachments, &c.Deleted,
		&c.DeletedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *DB) CreateComment(ctx context.Context, c entity.Comment) (err error) {
	ctx, span := s.startSpan(ctx, "CreateComment")
	defer func() { pgsql.EndSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO comments (id, post_id, author_id, content, attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.PostID, c.AuthorID, c.Content, attachments(c.Attachments), c.CreatedAt, c.UpdatedAt)
	return pgsql.MapError(err)
}

func (s *DB) GetComment(ctx context.Context, postID, commentID int64) (_ *entity.Comment, err error) {
	ctx, span := s.startSpan(ctx, "GetComment")
	defer func() { pgsql.EndSpan(span, err) }()

	c, err := scanComment(s.conn.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments c WHERE c.id = $1 AND c.post_id = $2`, commentID, postID))
	if err != nil {
		return nil, pgsql.MapError(err)
	}
	return c, nil
}

func (s *DB) UpdateComment(ctx context.Context, c entity.Comment) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateComment")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE comments SET content = $2, attachments = $3, updated_at = $4
		WHERE id = $1 AND NOT is_deleted`,
		c.ID, c.Content, attachments(c.Attachments), c.UpdatedAt))
}

func (s *DB) FreezeComment(ctx context.Context, id, by int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "FreezeComment")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE comments SET is_deleted = TRUE, deleted_by = $2, updated_at = $3
		WHERE id = $1 AND NOT is_deleted`, id, by, at))
}

func (s *DB) RestoreComment(ctx context.Context, id, by int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "RestoreComment")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE comments SET is_deleted = FALSE, deleted_by = NULL, updated_at = $3
		WHERE id = $1 AND is_deleted AND deleted_by = $2`, id, by, at))
}

func (s *DB) ToggleCommentLike(ctx context.Context, commentID, accountID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ToggleCommentLike")
	defer func() { pgsql.EndSpan(span, err) }()

	return s.toggle(ctx,
		`DELETE FROM comment_likes WHERE comment_id = $1 AND account_id = $2`,
		`INSERT INTO comment_likes (comment_id, account_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		commentID, accountID)
}
