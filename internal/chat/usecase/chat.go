package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/gosocial/internal/chat/entity"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
)

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

type GetChatInput struct {
	UserID int64 `validate:"required,gt=0"`
}

type GetChatOutput struct {
	Chat *entity.Chat
	// PeerOnline reports whether the other participant has a live socket.
	PeerOnline bool
}

// GetChat returns the conversation between the caller and UserID.
func (s *Usecase) GetChat(ctx context.Context, in GetChatInput) (*GetChatOutput, error) {
	ctx, span := s.startSpan(ctx, "GetChat")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	low, high := entity.Participants(clm.UserID, in.UserID)
	chat, err := s.repoDB.GetChat(ctx, low, high, History)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Chat not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get chat", "account_id", clm.UserID, "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	online, err := s.presence.Online(ctx, in.UserID)
	if err != nil {
		slog.WarnContext(ctx, "failed to read presence", "user_id", in.UserID, "error", err)
	}

	return &GetChatOutput{Chat: chat, PeerOnline: online}, nil
}
