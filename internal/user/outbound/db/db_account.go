package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
	"github.com/shandysiswandi/gosocial/internal/user/entity"
)

const accountColumns = `id, email, password_hash, name, gender, phone_cipher, avatar_key,
	avatar_url, provider, temp_email, deleted_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var acc entity.Account
	if err := row.Scan(
		&acc.ID,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Name,
		&acc.Gender,
		&acc.PhoneCipher,
		&acc.AvatarKey,
		&acc.AvatarURL,
		&acc.Provider,
		&acc.TempEmail,
		&acc.DeletedAt,
	); err != nil {
		return nil, pgsql.MapError(err)
	}
	return &acc, nil
}

func (s *DB) GetAccount(ctx context.Context, id int64) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { pgsql.EndSpan(span, err) }()

	return scanAccount(s.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (s *DB) GetAccountByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByEmail")
	defer func() { pgsql.EndSpan(span, err) }()

	return scanAccount(s.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (s *DB) UpdateProfile(ctx context.Context, in entity.ProfileUpdate) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateProfile")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE accounts SET name = $2, gender = $3, phone_cipher = $4, avatar_key = $5,
			avatar_url = $6, updated_at = NOW()
		WHERE id = $1`,
		in.ID, in.Name, in.Gender, in.PhoneCipher, in.AvatarKey, in.AvatarURL,
	))
}

func (s *DB) UpdatePassword(ctx context.Context, id int64, hash string, changedAt time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePassword")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE accounts SET password_hash = $2, change_password_at = $3, updated_at = NOW()
		WHERE id = $1`, id, hash, changedAt))
}

func (s *DB) SetTempEmail(ctx context.Context, id int64, email string) (err error) {
	ctx, span := s.startSpan(ctx, "SetTempEmail")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx,
		`UPDATE accounts SET temp_email = $2, updated_at = NOW() WHERE id = $1`, id, email))
}

// SwapEmail promotes temp_email and returns it.
func (s *DB) SwapEmail(ctx context.Context, id int64, changedAt time.Time) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "SwapEmail")
	defer func() { pgsql.EndSpan(span, err) }()

	var email string
	err = s.conn.QueryRow(ctx, `
		UPDATE accounts SET email = temp_email, temp_email = '', change_password_at = $2, updated_at = NOW()
		WHERE id = $1 AND temp_email <> ''
		RETURNING email`, id, changedAt,
	).Scan(&email)
	if err != nil {
		return "", pgsql.MapError(err)
	}
	return email, nil
}
