package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/shared/event"
	"github.com/shandysiswandi/gosocial/internal/user/usecase"
	"go.opentelemetry.io/otel/codes"
)

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishProfileViews(ctx context.Context, ev usecase.ProfileViewsEvent) error {
	ctx, span := m.ins.Tracer("user.outbound.mq").Start(ctx, "PublishProfileViews")
	defer span.End()

	body, err := json.Marshal(event.EmailMessage{
		Kind:       event.EmailKindProfileViews,
		To:         ev.OwnerEmail,
		Name:       ev.OwnerName,
		ViewerName: ev.ViewerName,
		TotalViews: ev.TotalViews,
		ViewedAt:   ev.ViewedAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	msg := &messaging.Message{Key: []byte(ev.OwnerEmail), Body: body}
	msg.SetHeader(event.HeaderCorrelationID, instrument.GetCorrelationID(ctx))

	if err := m.client.Publish(ctx, event.NotificationEmailTopic, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
