package mq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/shared/event"
)

type capturePublisher struct {
	topic string
	msg   *messaging.Message
}

func (c *capturePublisher) Publish(_ context.Context, topic string, msg *messaging.Message) error {
	c.topic = topic
	c.msg = msg
	return nil
}

func TestMessaging_Dispatch(t *testing.T) {
	// Arrange
	pub := &capturePublisher{}
	m := NewMessaging(pub, instrument.NewNoop())
	ctx := instrument.SetCorrelationID(context.Background(), "cid-1")

	// Act
	err := m.Dispatch(ctx, passcode.Delivery{
		AccountID: 7,
		To:        "a@gosocial.test",
		Name:      "Alice",
		Purpose:   passcode.PurposePasswordReset,
		Code:      "0420",
	})

	// Assert
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if pub.topic != event.NotificationEmailTopic || pub.msg.Header(event.HeaderCorrelationID) != "cid-1" || string(pub.msg.Key) != "7" {
		t.Fatalf("unexpected publish: topic=%s msg=%+v", pub.topic, pub.msg)
	}

	var got event.EmailMessage
	if err := json.Unmarshal(pub.msg.Body, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Kind != event.EmailKindOTP || got.Code != "0420" || got.Purpose != "password_reset" || got.To != "a@gosocial.test" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}
