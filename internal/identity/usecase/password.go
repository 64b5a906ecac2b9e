package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

type ForgotPasswordInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ForgotPassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.liveAccountByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return err
	}

	return s.passcodes.Issue(ctx, passcode.IssueInput{
		AccountID: acc.ID,
		Purpose:   passcode.PurposePasswordReset,
	})
}

type ResetPasswordInput struct {
	Email    string `validate:"required,email"`
	Code     string `validate:"required,otpcode"`
	Password string `validate:"required,password"`
}

func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.liveAccountByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return err
	}

	if _, err := s.passcodes.Verify(ctx, passcode.VerifyInput{
		AccountID: acc.ID,
		Purpose:   passcode.PurposePasswordReset,
		Code:      in.Code,
	}); err != nil {
		return err
	}

	passHash, err := s.bcrypt.Hash(in.Password)
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
