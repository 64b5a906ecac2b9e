package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/gosocial/internal/identity/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/pgsql"
)

const accountColumns = `id, email, password_hash, name, gender, phone_cipher, avatar_key, avatar_url,
	role, provider, confirmed, two_factor_enabled, change_password_at, deleted_at, created_at`

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
		&acc.Role,
		&acc.Provider,
		&acc.Confirmed,
		&acc.TwoFactorEnabled,
		&acc.ChangePasswordAt,
		&acc.DeletedAt,
		&acc.CreatedAt,
	); err != nil {
		return nil, pgsql.MapError(err)
	}
	return &acc, nil
}

func (s *DB) GetAccountByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByEmail")
	defer func() { pgsql.EndSpan(span, err) }()

	return scanAccount(s.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (s *DB) GetAccountByID(ctx context.Context, id int64) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByID")
	defer func() { pgsql.EndSpan(span, err) }()

	return scanAccount(s.conn.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (s *DB) CreateAccount(ctx context.Context, acc entity.NewAccount) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { pgsql.EndSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, name, gender, phone_cipher,
			avatar_key, avatar_url, role, provider, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		acc.ID, acc.Email, acc.PasswordHash, acc.Name, acc.Gender, acc.PhoneCipher,
		acc.AvatarKey, acc.AvatarURL, acc.Role, acc.Provider, acc.Confirmed,
	)
	return pgsql.MapError(err)
}

func (s *DB) MarkConfirmed(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkConfirmed")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx,
		`UPDATE accounts SET confirmed = TRUE, updated_at = NOW() WHERE id = $1`, id))
}

func (s *DB) SetTwoFactor(ctx context.Context, id int64, enabled bool) (err error) {
	ctx, span := s.startSpan(ctx, "SetTwoFactor")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx,
		`UPDATE accounts SET two_factor_enabled = $2, updated_at = NOW() WHERE id = $1`, id, enabled))
}

func (s *DB) UpdatePassword(ctx context.Context, id int64, hash string, changedAt time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePassword")
	defer func() { pgsql.EndSpan(span, err) }()

	return pgsql.Affected(s.conn.Exec(ctx, `
		UPDATE accounts SET password_hash = $2, change_password_at = $3, updated_at = NOW()
		WHERE id = $1`, id, hash, changedAt))
}
