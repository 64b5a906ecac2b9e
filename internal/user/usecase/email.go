package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

type RequestEmailChangeInput struct {
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required"`
}

// RequestEmailChange parks the new address and sends a code to it.
func (s *Usecase) RequestEmailChange(ctx context.Context, in RequestEmailChangeInput) error {
	ctx, span := s.startSpan(ctx, "RequestEmailChange")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	me, err := s.me(ctx)
	if err != nil {
		return err
	}

	if me.PasswordHash == "" || !s.bcrypt.Verify(me.PasswordHash, in.Password) {
		return goerror.NewBusiness("Incorrect password", goerror.CodeInvalidFormat)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == me.Email {
		return goerror.NewBusiness("New email must differ from the current one", goerror.CodeInvalidFormat)
	}

	_, err = s.repoDB.GetAccountByEmail(ctx, email)
	if err == nil {
		return goerror.NewBusiness("Email already in use", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.SetTempEmail(ctx, me.ID, email); err != nil {
		slog.ErrorContext(ctx, "failed to repo set temp email", "account_id", me.ID, "error", err)
		return goerror.NewServer(err)
	}

	return s.passcodes.Issue(ctx, passcode.IssueInput{
		AccountID:   me.ID,
		Purpose:     passcode.PurposeEmailChange,
		Destination: email,
	})
}

type ConfirmEmailChangeInput struct {
	Code string `validate:"required,otpcode"`
}

type ConfirmEmailChangeOutput struct {
	Email string
}

// ConfirmEmailChange swaps in the parked address. Outstanding tokens stop
// working because the swap also stamps change_password_at.
func (s *Usecase) ConfirmEmailChange(ctx context.Context, in ConfirmEmailChangeInput) (*ConfirmEmailChangeOutput, error) {
	ctx, span := s.startSpan(ctx, "ConfirmEmailChange")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	me, err := s.me(ctx)
	if err != nil {
		return nil, err
	}

	if me.TempEmail == "" {
		return nil, goerror.NewBusiness("No email change requested", goerror.CodeInvalidFormat)
	}

	if _, err := s.passcodes.Verify(ctx, passcode.VerifyInput{
		AccountID: me.ID,
		Purpose:   passcode.PurposeEmailChange,
		Code:      in.Code,
	}); err != nil {
		return nil, err
	}

	email, err := s.repoDB.SwapEmail(ctx, me.ID, s.clock.Now())
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("Email already in use", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo swap email", "account_id", me.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ConfirmEmailChangeOutput{Email: email}, nil
}
