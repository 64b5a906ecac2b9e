package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
)

type BlockInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) Block(ctx context.Context, in BlockInput) error {
	ctx, span := s.startSpan(ctx, "Block")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	me, err := s.me(ctx)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == me.Email {
		return goerror.NewBusiness("You cannot block yourself", goerror.CodeInvalidFormat)
	}

	target, err := s.liveAccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	err = s.repoDB.Block(ctx, me.ID, target.ID)
	if errors.Is(err, goerror.ErrConflict) {
		return goerror.NewBusiness("User already blocked", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo block", "blocker_id", me.ID, "blocked_id", target.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) Unblock(ctx context.Context, in BlockInput) error {
	ctx, span := s.startSpan(ctx, "Unblock")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	me, err := s.me(ctx)
	if err != nil {
		return err
	}

	target, err := s.liveAccountByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return err
	}

	err = s.repoDB.Unblock(ctx, me.ID, target.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("User is not blocked", goerror.CodeInvalidFormat)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo unblock", "blocker_id", me.ID, "blocked_id", target.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

type ToggleFriendInput struct {
	ID int64 `validate:"required,gt=0"`
}

type ToggleFriendOutput struct {
	Friends bool
}

// ToggleFriend adds the friendship when absent and removes it otherwise.
// Friendship is mutual.
func (s *Usecase) ToggleFriend(ctx context.Context, in ToggleFriendInput) (*ToggleFriendOutput, error) {
	ctx, span := s.startSpan(ctx, "ToggleFriend")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	me, err := s.me(ctx)
	if err != nil {
		return nil, err
	}

	if me.ID == in.ID {
		return nil, goerror.NewBusiness("You cannot befriend yourself", goerror.CodeInvalidFormat)
	}

	target, err := s.liveAccount(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.blocked(ctx, target.ID, me.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}

	added, err := s.repoDB.ToggleFriend(ctx, me.ID, target.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo toggle friend", "account_id", me.ID, "friend_id", target.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ToggleFriendOutput{Friends: added}, nil
}
