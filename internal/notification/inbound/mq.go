package inbound

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gosocial/internal/notification/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/shared/event"
)

type uc interface {
	SendEmail(ctx context.Context, in usecase.SendEmailInput) bool
}

type ConsumerConfig struct {
	Concurrency int
}

// RegisterMQConsumer runs the email consumer on routine until ctx ends.
func RegisterMQConsumer(
	ctx context.Context,
	cfg ConsumerConfig,
	routine *goroutine.Manager,
	subscriber messaging.Subscriber,
	idem idempotency.Idempotency,
	keys hash.Hash,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) bool {
	h := &MQHandler{uc: uc, idem: idem, keys: keys, uuid: uuid, ins: ins}

	// Subscribe takes ctx itself; the task context never cancels.
	return routine.Go(ctx, "consumer "+event.NotificationEmailConsumer, func(context.Context) error {
		slog.InfoContext(ctx, "running consumer", "topic", event.NotificationEmailTopic, "consumer", event.NotificationEmailConsumer)
		return subscriber.Subscribe(ctx,
			event.NotificationEmailTopic,
			h.EmailNotification,
			messaging.WithGroup(event.NotificationEmailConsumer),
			messaging.WithConcurrency(cfg.Concurrency),
		)
	})
}
