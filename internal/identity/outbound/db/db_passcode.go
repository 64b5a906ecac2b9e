package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
)

func (s *DB) GetAccount(ctx context.Context, id int64) (_ passcode.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { pgsql.EndSpan(span, err) }()

	var acc passcode.Account
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, name, confirmed FROM accounts
		WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&acc.ID, &acc.Email, &acc.Name, &acc.Confirmed)
	if err != nil {
		return passcode.Account{}, pgsql.MapError(err)
	}
	return acc, nil
}

func (s *DB) GetCode(ctx context.Context, id int64, p passcode.Purpose) (_ passcode.Record, err error) {
	ctx, span := s.startSpan(ctx, "GetCode")
	defer func() { pgsql.EndSpan(span, err) }()

	rec := passcode.Record{AccountID: id, Purpose: p}
	err = s.conn.QueryRow(ctx, `
		SELECT code_hash, issued_at, lockout_at, failed_attempts FROM account_otps
		WHERE account_id = $1 AND purpose = $2`, id, p,
	).Scan(&rec.CodeHash, &rec.IssuedAt, &rec.LockoutAt, &rec.FailedAttempts)
	if err != nil {
		return passcode.Record{}, pgsql.MapError(err)
	}
	return rec, nil
}

// SaveCode replaces the live code and clears any failure state.
func (s *DB) SaveCode(ctx context.Context, rec passcode.Record) (err error) {
	ctx, span := s.startSpan(ctx, "SaveCode")
	defer func() { pgsql.EndSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO account_otps (account_id, purpose, code_hash, issued_at, lockout_at, failed_attempts)
		VALUES ($1, $2, $3, $4, NULL, 0)
		ON CONFLICT (account_id, purpose) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
			issued_at = EXCLUDED.issued_at,
			lockout_at = NULL,
			failed_attempts = 0`,
		rec.AccountID, rec.Purpose, rec.CodeHash, rec.IssuedAt,
	)
	return pgsql.MapError(err)
}

// RegisterFailure counts one wrong guess in a single statement. Reaching
// limit starts a lockout at now and resets the counter.
func (s *DB) RegisterFailure(ctx context.Context, id int64, p passcode.Purpose, limit int, now time.Time) (_ passcode.Failure, err error) {
	ctx, span := s.startSpan(ctx, "RegisterFailure")
	defer func() { pgsql.EndSpan(span, err) }()

	var (
		attempts int
		locked   bool
	)
	err = s.conn.QueryRow(ctx, `
		UPDATE account_otps SET
			failed_attempts = CASE WHEN failed_attempts + 1 >= $3 THEN 0 ELSE failed_attempts + 1 END,
			lockout_at = CASE WHEN failed_attempts + 1 >= $3 THEN $4 ELSE lockout_at END
		WHERE account_id = $1 AND purpose = $2
		RETURNING failed_attempts, lockout_at IS NOT DISTINCT FROM $4`,
		id, p, limit, now,
	).Scan(&attempts, &locked)
	if err != nil {
		return passcode.Failure{}, pgsql.MapError(err)
	}

	return passcode.Failure{Attempts: attempts, Locked: locked}, nil
}

// DeleteCode removes the record only while it still holds codeHash, so of
// two concurrent correct guesses exactly one consumes the code.
func (s *DB) DeleteCode(ctx context.Context, id int64, p passcode.Purpose, codeHash string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteCode")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		DELETE FROM account_otps
		WHERE account_id = $1 AND purpose = $2 AND code_hash = $3`, id, p, codeHash))
}
