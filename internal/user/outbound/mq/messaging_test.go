package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/shared/event"
	"github.com/shandysiswandi/gosocial/internal/user/usecase"
)

type capturePublisher struct {
	topic string
	msg   *messaging.Message
	err   error
}

func (c *capturePublisher) Publish(_ context.Context, topic string, msg *messaging.Message) error {
	c.topic = topic
	c.msg = msg
	return c.err
}

func TestMessaging_PublishProfileViews(t *testing.T) {
	// Arrange
	pub := &capturePublisher{}
	m := NewMessaging(pub, instrument.NewNoop())
	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	// Act
	err := m.PublishProfileViews(context.Background(), usecase.ProfileViewsEvent{
		OwnerEmail: "owner@gosocial.test",
		OwnerName:  "Owner",
		ViewerName: "Viewer",
		TotalViews: 7,
		ViewedAt:   []time.Time{at},
	})

	// Assert
	if err != nil {
		t.Fatalf("PublishProfileViews() error = %v", err)
	}
	if pub.topic != event.NotificationEmailTopic {
		t.Fatalf("topic = %s", pub.topic)
	}

	var got event.EmailMessage
	if err := json.Unmarshal(pub.msg.Body, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Kind != event.EmailKindProfileViews || got.TotalViews != 7 || len(got.ViewedAt) != 1 || !got.ViewedAt[0].Equal(at) {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestMessaging_PublishError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	m := NewMessaging(pub, instrument.NewNoop())

	if err := m.PublishProfileViews(context.Background(), usecase.ProfileViewsEvent{OwnerEmail: "o@gosocial.test"}); err == nil {
		t.Fatalf("PublishProfileViews() error = nil, want broker error")
	}
}
