package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

// Messaging delivers passcodes through the notification email topic.
type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) Dispatch(ctx context.Context, d passcode.Delivery) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "Dispatch")
	defer span.End()

	body, err := json.Marshal(event.EmailMessage{
		Kind:    event.EmailKindOTP,
		To:      d.To,
		Name:    d.Name,
		Purpose: d.Purpose.String(),
		Code:    d.Code,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	msg := &messaging.Message{
		Key:  []byte(strconv.FormatInt(d.AccountID, 10)),
		Body: body,
	}
	msg.SetHeader(event.HeaderCorrelationID, instrument.GetCorrelationID(ctx))

	if err := m.client.Publish(ctx, event.NotificationEmailTopic, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
