package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

type ChangePasswordInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,password,nefield=OldPassword"`
}

func (s *Usecase) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	ctx, span := s.startSpan(ctx, "ChangePassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.me(ctx)
	if err != nil {
		return err
	}

	if acc.PasswordHash == "" || !s.bcrypt.Verify(acc.PasswordHash, in.OldPassword) {
		slog.WarnContext(ctx, "old password not match", "account_id", acc.ID)
		return goerror.NewBusiness("Incorrect password", goerror.CodeInvalidFormat)
	}

	passHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdatePassword(ctx, acc.ID, string(passHash), s.clock.Now()); err != nil {
		slog.ErrorContext(ctx, "failed to repo update password", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
