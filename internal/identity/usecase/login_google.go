package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/identity/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/shared/account"
)

type LoginGoogleInput struct {
	IDToken string `validate:"required"`
}

func (s *Usecase) LoginGoogle(ctx context.Context, in LoginGoogleInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginGoogle")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if s.google == nil {
		return nil, goerror.NewBusiness("Google sign-in is not configured", goerror.CodeInvalidFormat)
	}

	identity, err := s.google.Verify(ctx, in.IDToken)
	if err != nil {
		slog.WarnContext(ctx, "google id token rejected", "error", err)
		return nil, goerror.NewBusiness("Invalid Google credential", goerror.CodeUnauthorized)
	}

	if !identity.EmailVerified {
		return nil, goerror.NewBusiness("Google email is not verified", goerror.CodeInvalidFormat)
	}

	email := normalizeEmail(identity.Email)
	acc, err := s.repoDB.GetAccountByEmail(ctx, email)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err == nil {
		if acc.Deleted() {
			return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
		}
		if acc.Provider != account.ProviderGoogle {
			return nil, goerror.NewBusiness("Account registered with email and password", goerror.CodeConflict)
		}
		return s.issueTokens(ctx, acc)
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	newAcc := entity.NewAccount{
		ID:        s.uid.Generate(),
		Email:     email,
		Name:      name,
		AvatarURL: identity.Picture,
		Role:      account.RoleUser,
		Provider:  account.ProviderGoogle,
		Confirmed: true,
	}
	if err := s.repoDB.CreateAccount(ctx, newAcc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create google account", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return s.issueTokens(ctx, &entity.Account{
		ID:        newAcc.ID,
		Email:     newAcc.Email,
		Role:      newAcc.Role,
		Provider:  newAcc.Provider,
		Confirmed: true,
	})
}
