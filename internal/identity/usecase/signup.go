package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/identity/entity"
	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/shared/account"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

type SignupInput struct {
	Name     string `validate:"required,min=3,max=30,alphaspace"`
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required,password"`
	Phone    string `validate:"omitempty,phone"`
	Gender   string `validate:"required,oneof=male female"`
	Image    *upload.File
}

type SignupOutput struct {
	ID    int64
	Email string
}

func (s *Usecase) Signup(ctx context.Context, in SignupInput) (*SignupOutput, error) {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Image != nil {
		if err := s.uploader.Check([]upload.File{*in.Image}); err != nil {
			return nil, goerror.NewInvalidFormat(err.Error())
		}
	}

	email := normalizeEmail(in.Email)
	_, err := s.repoDB.GetAccountByEmail(ctx, email)
	if err == nil {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	passHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	id := s.uid.Generate()
	acc := entity.NewAccount{
		ID:           id,
		Email:        email,
		PasswordHash: string(passHash),
		Name:         strings.TrimSpace(in.Name),
		Gender:       account.Gender(in.Gender),
		Role:         account.RoleUser,
		Provider:     account.ProviderSystem,
	}

	if in.Phone != "" {
		acc.PhoneCipher, err = s.cipher.Seal(id, in.Phone)
		if err != nil {
			slog.ErrorContext(ctx, "failed to encrypt phone", "account_id", id, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	var stored []upload.Attachment
	if in.Image != nil {
		stored, err = s.uploader.Store(ctx, "avatars/"+strconv.FormatInt(id, 10), []upload.File{*in.Image})
		if err != nil {
			slog.ErrorContext(ctx, "failed to store avatar", "account_id", id, "error", err)
			return nil, goerror.NewServer(err)
		}
		acc.AvatarKey = stored[0].Key
		acc.AvatarURL = stored[0].URL
	}

	if err := s.repoDB.CreateAccount(ctx, acc); err != nil {
		s.uploader.Remove(ctx, stored)
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create account", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	// the account is usable without the first code; resend covers a failure here
	if err := s.passcodes.Issue(ctx, passcode.IssueInput{
		AccountID: id,
		Purpose:   passcode.PurposeEmailConfirm,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to issue email confirmation code", "account_id", id, "error", err)
	}

	return &SignupOutput{ID: id, Email: email}, nil
}
