package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/identity/entity"
	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/shared/account"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	TwoFactorRequired bool
	//
	TokenType    string
	AccessToken  string
	RefreshToken string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.liveAccountByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}

	if err := ensureCanSignIn(acc); err != nil {
		return nil, err
	}

	if !s.bcrypt.Verify(acc.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password account not match", "account_id", acc.ID)
		return nil, goerror.NewBusiness("Incorrect password", goerror.CodeInvalidFormat)
	}

	if acc.TwoFactorEnabled {
		if err := s.passcodes.Issue(ctx, passcode.IssueInput{
			AccountID: acc.ID,
			Purpose:   passcode.PurposeTwoFactor,
		}); err != nil {
			return nil, err
		}
		return &LoginOutput{TwoFactorRequired: true}, nil
	}

	return s.issueTokens(ctx, acc)
}

type LoginConfirmInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otpcode"`
}

func (s *Usecase) LoginConfirm(ctx context.Context, in LoginConfirmInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginConfirm")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.liveAccountByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}

	if err := ensureCanSignIn(acc); err != nil {
		return nil, err
	}

	if !acc.TwoFactorEnabled {
		return nil, goerror.NewBusiness("Two-factor authentication is not active", goerror.CodeInvalidFormat)
	}

	if _, err := s.passcodes.Verify(ctx, passcode.VerifyInput{
		AccountID: acc.ID,
		Purpose:   passcode.PurposeTwoFactor,
		Code:      in.Code,
	}); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, acc)
}

func ensureCanSignIn(acc *entity.Account) error {
	if !acc.Confirmed {
		return goerror.NewBusiness("Please confirm your email first", goerror.CodeForbidden)
	}
	if acc.Provider != account.ProviderSystem {
		return goerror.NewBusiness("This account signs in with Google", goerror.CodeInvalidFormat)
	}
	return nil
}
