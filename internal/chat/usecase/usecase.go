package usecase

import (
	"context"

	"github.com/shandysiswandi/gosocial/internal/chat/entity"
	"github.com/shandysiswandi/gosocial/internal/chat/hub"
	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// History is how many recent messages a chat carries when returned.
const History = 50

type repoDB interface {
	AccountExists(ctx context.Context, id int64) (bool, error)
	// AppendMessage creates the chat of msg's participants when missing and
	// stores msg in it, returning the chat with its latest messages.
	AppendMessage(ctx context.Context, newChatID, low, high int64, msg entity.Message, history int) (*entity.Chat, error)
	GetChat(ctx context.Context, low, high int64, history int) (*entity.Chat, error)
}

type presence interface {
	Join(ctx context.Context, id int64) error
	Leave(ctx context.Context, id int64) error
	Online(ctx context.Context, id int64) (bool, error)
}

type authenticator interface {
	Authenticate(ctx context.Context, authorization string) (jwt.Claims, error)
}

type Usecase struct {
	repoDB    repoDB
	presence  presence
	auth      authenticator
	registry  *hub.Registry
	validator validator.Validator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	Presence      presence
	Authenticator authenticator
	Registry      *hub.Registry
	Validator     validator.Validator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		presence:  dep.Presence,
		auth:      dep.Authenticator,
		registry:  dep.Registry,
		validator: dep.Validator,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("chat.usecase").Start(ctx, name)
}
