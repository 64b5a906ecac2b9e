package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

type ConfirmEmailInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otpcode"`
}

func (s *Usecase) ConfirmEmail(ctx context.Context, in ConfirmEmailInput) error {
	ctx, span := s.startSpan(ctx, "ConfirmEmail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.liveAccountByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return err
	}

	if acc.Confirmed {
		return goerror.NewBusinessCause(passcode.ErrAlreadyConfirmed, "Email already confirmed", goerror.CodeConflict)
	}

	if _, err := s.passcodes.Verify(ctx, passcode.VerifyInput{
		AccountID: acc.ID,
		Purpose:   passcode.PurposeEmailConfirm,
		Code:      in.Code,
	}); err != nil {
		return err
	}

	if err := s.repoDB.MarkConfirmed(ctx, acc.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark account confirmed", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

type ResendEmailCodeInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) ResendEmailCode(ctx context.Context, in ResendEmailCodeInput) error {
	ctx, span := s.startSpan(ctx, "ResendEmailCode")
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
		Purpose:   passcode.PurposeEmailConfirm,
	})
}
