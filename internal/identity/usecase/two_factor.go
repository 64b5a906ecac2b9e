package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/shared/account"
)

func (s *Usecase) EnableTwoFactor(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "EnableTwoFactor")
	defer span.End()

	acc, err := s.currentAccount(ctx)
	if err != nil {
		return err
	}

	if acc.Provider == account.ProviderGoogle {
		return goerror.NewBusiness("Google accounts cannot enable two-factor authentication", goerror.CodeConflict)
	}

	if acc.TwoFactorEnabled {
		return goerror.NewBusiness("Two-factor authentication already active", goerror.CodeConflict)
	}

	return s.passcodes.Issue(ctx, passcode.IssueInput{
		AccountID: acc.ID,
		Purpose:   passcode.PurposeTwoFactor,
	})
}

type VerifyTwoFactorInput struct {
	Code string `validate:"required,otpcode"`
}

func (s *Usecase) VerifyTwoFactor(ctx context.Context, in VerifyTwoFactorInput) error {
	ctx, span := s.startSpan(ctx, "VerifyTwoFactor")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	acc, err := s.currentAccount(ctx)
	if err != nil {
		return err
	}

	if _, err := s.passcodes.Verify(ctx, passcode.VerifyInput{
		AccountID: acc.ID,
		Purpose:   passcode.PurposeTwoFactor,
		Code:      in.Code,
	}); err != nil {
		return err
	}

	if err := s.repoDB.SetTwoFactor(ctx, acc.ID, true); err != nil {
		slog.ErrorContext(ctx, "failed to repo enable two factor", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
