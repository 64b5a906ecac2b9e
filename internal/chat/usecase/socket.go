package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gosocial/internal/chat/entity"
	"github.com/shandysiswandi/gosocial/internal/chat/hub"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
)

// Event names carried on the socket.
const (
	EventSendMessage    = "sendMessage"
	EventAuthError      = "authError"
	EventSuccessMessage = "successMessage"
	EventReceiveMessage = "receiveMessage"
	EventErrorMessage   = "errorMessage"
)

// Connect authenticates a socket and registers it as the account's current
// connection.
func (s *Usecase) Connect(ctx context.Context, authorization string, conn hub.Conn) (jwt.Claims, error) {
	ctx, span := s.startSpan(ctx, "Connect")
	defer span.End()

	clm, err := s.auth.Authenticate(ctx, authorization)
	if err != nil {
		return jwt.Claims{}, err
	}

	// A replaced socket never receives again, so it is closed. Its read loop
	// ends and its own Disconnect releases its presence slot.
	if prev := s.registry.Register(clm.UserID, conn); prev != nil {
		slog.InfoContext(ctx, "chat connection replaced", "account_id", clm.UserID)
		if err := prev.Close(); err != nil {
			slog.WarnContext(ctx, "failed to close replaced chat connection", "account_id", clm.UserID, "error", err)
		}
	}

	if err := s.presence.Join(ctx, clm.UserID); err != nil {
		slog.WarnContext(ctx, "failed to mark account online", "account_id", clm.UserID, "error", err)
	}

	return clm, nil
}

// Disconnect forgets conn unless a newer connection took its place. The
// presence slot taken by its Connect is released either way.
func (s *Usecase) Disconnect(ctx context.Context, accountID int64, conn hub.Conn) {
	ctx, span := s.startSpan(ctx, "Disconnect")
	defer span.End()

	if !s.registry.Unregister(accountID, conn) {
		slog.DebugContext(ctx, "stale chat connection closed", "account_id", accountID)
	}

	if err := s.presence.Leave(ctx, accountID); err != nil {
		slog.WarnContext(ctx, "failed to mark account offline", "account_id", accountID, "error", err)
	}
}

type SendMessageInput struct {
	SenderID int64  `validate:"required,gt=0"`
	DestID   int64  `validate:"required,gt=0"`
	Message  string `validate:"required,max=2000"`
}

type SendMessageOutput struct {
	Message string
	Chat    *entity.Chat
	// Delivered reports whether the recipient had a connection that accepted
	// the frame.
	Delivered bool
}

// ReceivedMessage is the frame data a recipient gets.
type ReceivedMessage struct {
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}

// SendMessage stores the message, then makes one delivery attempt to the
// recipient's registered connection.
func (s *Usecase) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	ctx, span := s.startSpan(ctx, "SendMessage")
	defer span.End()

	in.Message = strings.TrimSpace(in.Message)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.SenderID == in.DestID {
		return nil, goerror.NewBusiness("You cannot message yourself", goerror.CodeInvalidFormat)
	}

	ok, err := s.repoDB.AccountExists(ctx, in.DestID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check account", "account_id", in.DestID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}

	low, high := entity.Participants(in.SenderID, in.DestID)
	msg := entity.Message{
		ID:        s.uid.Generate(),
		SenderID:  in.SenderID,
		Body:      in.Message,
		CreatedAt: s.clock.Now(),
	}

	chat, err := s.repoDB.AppendMessage(ctx, s.uid.Generate(), low, high, msg, History)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo append message", "sender_id", in.SenderID, "dest_id", in.DestID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := &SendMessageOutput{Message: msg.Body, Chat: chat}

	if conn, ok := s.registry.Lookup(in.DestID); ok {
		err := conn.Send(hub.Event{Name: EventReceiveMessage, Data: ReceivedMessage{
			Message:  msg.Body,
			SenderID: formatID(in.SenderID),
		}})
		if err != nil {
			slog.WarnContext(ctx, "failed to deliver chat message", "dest_id", in.DestID, "error", err)
		}
		out.Delivered = err == nil
	}

	return out, nil
}
