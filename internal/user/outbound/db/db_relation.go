package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
	"github.com/shandysiswandi/gosocial/internal/user/entity"
)

func (s *DB) ListFriends(ctx context.Context, id int64) (_ []entity.Friend, err error) {
	ctx, span := s.startSpan(ctx, "ListFriends")
	defer func() { pgsql.EndSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT a.id, a.name, a.avatar_url
		FROM account_friends f
		JOIN accounts a ON a.id = CASE WHEN f.low_id = $1 THEN f.high_id ELSE f.low_id END
		WHERE (f.low_id = $1 OR f.high_id = $1) AND a.deleted_at IS NULL
		ORDER BY f.created_at`, id)
	if err != nil {
		return nil, pgsql.MapError(err)
	}

	friends, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Friend, error) {
		var f entity.Friend
		err := row.Scan(&f.ID, &f.Name, &f.AvatarURL)
		return f, err
	})
	if err != nil {
		return nil, pgsql.MapError(err)
	}
	return friends, nil
}

func (s *DB) IsBlocked(ctx context.Context, blockerID, blockedID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "IsBlocked")
	defer func() { pgsql.EndSpan(span, err) }()

	var ok bool
	err = s.conn.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM account_blocks WHERE blocker_id = $1 AND blocked_id = $2)`,
		blockerID, blockedID,
	).Scan(&ok)
	return ok, pgsql.MapError(err)
}

func (s *DB) Block(ctx context.Context, blockerID, blockedID int64) (err error) {
	ctx, span := s.startSpan(ctx, "Block")
	defer func() { pgsql.EndSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO account_blocks (blocker_id, blocked_id) VALUES ($1, $2)`, blockerID, blockedID)
	return pgsql.MapError(err)
}

func (s *DB) Unblock(ctx context.Context, blockerID, blockedID int64) (err error) {
	ctx, span := s.startSpan(ctx, "Unblock")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx,
		`DELETE FROM account_blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID))
}

// ToggleFriend reports true when the friendship now exists.
func (s *DB) ToggleFriend(ctx context.Context, a, b int64) (added bool, err error) {
	ctx, span := s.startSpan(ctx, "ToggleFriend")
	defer func() { pgsql.EndSpan(span, err) }()

	low, high := pair(a, b)
	err = pgsql.WithTx(ctx, s.conn, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM account_friends WHERE low_id = $1 AND high_id = $2`, low, high)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		added = true
		_, err = tx.Exec(ctx, `
			INSERT INTO account_friends (low_id, high_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, low, high)
		return err
	})
	return added, err
}

// RecordView counts one view and keeps the keep most recent timestamps.
func (s *DB) RecordView(ctx context.Context, ownerID, viewerID int64, at time.Time, keep int) (_ entity.ProfileView, err error) {
	ctx, span := s.startSpan(ctx, "RecordView")
	defer func() { pgsql.EndSpan(span, err) }()

	var view entity.ProfileView
	err = s.conn.QueryRow(ctx, `
		INSERT INTO profile_views (owner_id, viewer_id, total_views, viewed_at)
		VALUES ($1, $2, 1, ARRAY[$3::timestamptz])
		ON CONFLICT (owner_id, viewer_id) DO UPDATE
		SET total_views = profile_views.total_views + 1,
			viewed_at = (profile_views.viewed_at || $3::timestamptz)
				[GREATEST(1, cardinality(profile_views.viewed_at) + 2 - $4::int):]
		RETURNING total_views, viewed_at`,
		ownerID, viewerID, at, keep,
	).Scan(&view.TotalViews, &view.ViewedAt)
	if err != nil {
		return entity.ProfileView{}, pgsql.MapError(err)
	}
	return view, nil
}
