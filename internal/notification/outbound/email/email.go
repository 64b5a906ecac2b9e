package email

import (
	"context"
	"net/mail"

	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	pkgmail "github.com/shandysiswandi/gosocial/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Sender sends notification mail from one display name.
type Sender struct {
	client pkgmail.Mail
	from   string
	ins    instrument.Instrumentation
}

// New builds a Sender. An empty address keeps the client's default sender.
func New(client pkgmail.Mail, name, address string, ins instrument.Instrumentation) *Sender {
	from := ""
	if address != "" {
		from = (&mail.Address{Name: name, Address: address}).String()
	}
	return &Sender{client: client, from: from, ins: ins}
}

func (s *Sender) Send(ctx context.Context, msg pkgmail.Message) error {
	ctx, span := s.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.Int("mail.recipients", len(msg.To)+len(msg.Cc)))

	if msg.From == "" {
		msg.From = s.from
	}

	if err := s.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
