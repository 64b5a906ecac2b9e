package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
)

const postColumns = `p.id, p.author_id, p.content, p.attachments, p.archived, p.is_deleted,
	COALESCE(p.deleted_by, 0), p.created_at, p.updated_at`

func scanPost(row pgx.Row, extra ...any) (*entity.Post, error) {
	var p entity.Post
	dest := append([]any{
		&p.ID, &p.AuthorID, &p.Content, &p.Attachments, &p.Archived, &p.Deleted,
		&p.DeletedBy, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *DB) CreatePost(ctx context.Context, p entity.Post) (err error) {
	ctx, span := s.startSpan(ctx, "CreatePost")
	defer func() { pgsql.EndSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO posts (id, author_id, content, attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.AuthorID, p.Content, attachments(p.Attachments), p.CreatedAt, p.UpdatedAt)
	return pgsql.MapError(err)
}

func (s *DB) GetPost(ctx context.Context, id int64) (_ *entity.Post, err error) {
	ctx, span := s.startSpan(ctx, "GetPost")
	defer func() { pgsql.EndSpan(span, err) }()

	p, err := scanPost(s.conn.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if err != nil {
		return nil, pgsql.MapError(err)
	}
	return p, nil
}

func (s *DB) UpdatePost(ctx context.Context, p entity.Post) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePost")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE posts SET content = $2, attachments = $3, updated_at = $4
		WHERE id = $1 AND NOT is_deleted`,
		p.ID, p.Content, attachments(p.Attachments), p.UpdatedAt))
}

// DeletePost removes the row; likes and comments go with it.
func (s *DB) DeletePost(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeletePost")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id))
}

// FreezePost marks the post and its live comments deleted by the same account.
func (s *DB) FreezePost(ctx context.Context, id, by int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "FreezePost")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.WithTx(ctx, s.conn, func(tx pgx.Tx) error {
		if err := pgsql.Affected(tx.Exec(ctx, `
			UPDATE posts SET is_deleted = TRUE, deleted_by = $2, updated_at = $3
			WHERE id = $1 AND NOT is_deleted`, id, by, at)); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			UPDATE comments SET is_deleted = TRUE, deleted_by = $2, updated_at = $3
			WHERE post_id = $1 AND NOT is_deleted`, id, by, at)
		return err
	})
}

// RestorePost brings back the post and the comments frozen by the same
// account.
func (s *DB) RestorePost(ctx context.Context, id, by int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "RestorePost")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.WithTx(ctx, s.conn, func(tx pgx.Tx) error {
		if err := pgsql.Affected(tx.Exec(ctx, `
			UPDATE posts SET is_deleted = FALSE, deleted_by = NULL, updated_at = $3
			WHERE id = $1 AND is_deleted AND deleted_by = $2`, id, by, at)); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			UPDATE comments SET is_deleted = FALSE, deleted_by = NULL, updated_at = $3
			WHERE post_id = $1 AND is_deleted AND deleted_by = $2`, id, by, at)
		return err
	})
}

func (s *DB) SetArchived(ctx context.Context, id int64, archived bool, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "SetArchived")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE posts SET archived = $2, updated_at = $3
		WHERE id = $1 AND NOT is_deleted AND archived <> $2`, id, archived, at))
}

func (s *DB) TogglePostLike(ctx context.Context, postID, accountID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "TogglePostLike")
	defer func() { pgsql.EndSpan(span, err) }()

	return s.toggle(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND account_id = $2`,
		`INSERT INTO post_likes (post_id, account_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		postID, accountID)
}

// ListPosts returns the visible posts of authorIDs, newest first, each with
// its live comments oldest first.
func (s *DB) ListPosts(ctx context.Context, authorIDs []int64) (_ []entity.FeedPost, err error) {
	ctx, span := s.startSpan(ctx, "ListPosts")
	defer func() { pgsql.EndSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT `+postColumns+`, a.name, a.email,
			(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)
		FROM posts p
		JOIN accounts a ON a.id = p.author_id
		WHERE p.author_id = ANY($1) AND NOT p.is_deleted AND NOT p.archived AND a.deleted_at IS NULL
		ORDER BY p.created_at DESC, p.id DESC`, authorIDs)
	if err != nil {
		return nil, pgsql.MapError(err)
	}

	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.FeedPost, error) {
		var fp entity.FeedPost
		p, err := scanPost(row, &fp.Author.Name, &fp.Author.Email, &fp.Likes)
		if err != nil {
			return fp, err
		}
		fp.Post = *p
		fp.Author.ID = p.AuthorID
		return fp, nil
	})
	if err != nil {
		return nil, pgsql.MapError(err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	comments, err := s.liveComments(ctx, lo.Map(posts, func(fp entity.FeedPost, _ int) int64 { return fp.ID }))
	if err != nil {
		return nil, err
	}
	byPost := lo.GroupBy(comments, func(c entity.Comment) int64 { return c.PostID })
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
	}

	return posts, nil
}

func (s *DB) liveComments(ctx context.Context, postIDs []int64) ([]entity.Comment, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		WHERE c.post_id = ANY($1) AND NOT c.is_deleted
		ORDER BY c.created_at, c.id`, postIDs)
	if err != nil {
		return nil, pgsql.MapError(err)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return entity.Comment{}, err
		}
		return *c, nil
	})
	return comments, pgsql.MapError(err)
}

func (s *DB) ListFriendIDs(ctx context.Context, id int64) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, "ListFriendIDs")
	defer func() { pgsql.EndSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT CASE WHEN low_id = $1 THEN high_id ELSE low_id END
		FROM account_friends WHERE low_id = $1 OR high_id = $1`, id)
	if err != nil {
		return nil, pgsql.MapError(err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	return ids, pgsql.MapError(err)
}

// BlockersOf returns the accounts in among that blocked blockedID.
func (s *DB) BlockersOf(ctx context.Context, blockedID int64, among []int64) (_ []int64, err error) {
	ctx, span := s.startSpan(ctx, "BlockersOf")
	defer func() { pgsql.EndSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT blocker_id FROM account_blocks
		WHERE blocked_id = $1 AND blocker_id = ANY($2)`, blockedID, among)
	if err != nil {
		return nil, pgsql.MapError(err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	return ids, pgsql.MapError(err)
}
