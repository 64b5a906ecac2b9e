package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/notification/entity"
	"github.com/shandysiswandi/gosocial/internal/notification/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/shared/event"
)

type MQHandler struct {
	uc   uc
	idem idempotency.Idempotency
	// keys digests message ids into fixed-length idempotency keys.
	keys hash.Hash
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, msg *messaging.Message) context.Context {
	if cID := msg.Header(event.HeaderCorrelationID); cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// EmailNotification sends the email carried by msg once per message id. It
// returns nil for every outcome so the broker never redelivers a bad message.
func (h *MQHandler) EmailNotification(ctx context.Context, msg *messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg)

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "EmailNotification")
	defer span.End()

	var payload event.EmailMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of email notification", "message_id", msg.ID, "error", err)
		return nil
	}

	digest, err := h.keys.Hash(msg.Topic + ":" + msg.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash message id", "message_id", msg.ID, "error", err)
		return nil
	}

	err = h.idem.Exec(ctx, "notification:email:"+string(digest), func(ctx context.Context) error {
		if !h.uc.SendEmail(ctx, toSendEmailInput(payload)) {
			return errEmailNotSent
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, idempotency.ErrCompleted), errors.Is(err, idempotency.ErrInProgress), errors.Is(err, idempotency.ErrFailed):
		slog.InfoContext(ctx, "email notification already handled", "message_id", msg.ID, "error", err)
	case errors.Is(err, errEmailNotSent):
		slog.WarnContext(ctx, "email notification dropped", "message_id", msg.ID, "kind", payload.Kind)
	default:
		slog.ErrorContext(ctx, "failed to track email notification", "message_id", msg.ID, "error", err)
	}

	return nil
}

var errEmailNotSent = errors.New("email not sent")

func toSendEmailInput(p event.EmailMessage) usecase.SendEmailInput {
	return usecase.SendEmailInput{
		Kind:       entity.Kind(p.Kind),
		To:         p.To,
		Name:       p.Name,
		Purpose:    p.Purpose,
		Code:       p.Code,
		ViewerName: p.ViewerName,
		TotalViews: p.TotalViews,
		ViewedAt:   p.ViewedAt,
	}
}
