package notification

import (
	"context"

	"github.com/shandysiswandi/gosocial/internal/notification/inbound"
	"github.com/shandysiswandi/gosocial/internal/notification/outbound/email"
	"github.com/shandysiswandi/gosocial/internal/notification/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/config"
	"github.com/shandysiswandi/gosocial/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/mail"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
)

type Dependency struct {
	// Ctx bounds the consumer; without it no consumer is started.
	Ctx         context.Context
	Config      config.Config              `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	KeyHash     hash.Hash                  `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UUID        uid.StringID               `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	sender := email.New(dep.Mail, dep.Config.GetString("mail.from_name"), dep.Config.GetString("mail.from"), dep.Instrument)
	uc, err := usecase.New(usecase.Dependency{
		RepoMail:   sender,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})
	if err != nil {
		return err
	}

	if dep.Ctx != nil && dep.Config.GetBool("modules.notification.consumer_enabled") {
		inbound.RegisterMQConsumer(dep.Ctx,
			inbound.ConsumerConfig{Concurrency: dep.Config.GetInt("modules.notification.concurrency")},
			dep.Goroutine, dep.Messaging, dep.Idempotency, dep.KeyHash, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
