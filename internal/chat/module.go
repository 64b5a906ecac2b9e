package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gosocial/internal/chat/hub"
	"github.com/shandysiswandi/gosocial/internal/chat/inbound"
	"github.com/shandysiswandi/gosocial/internal/chat/outbound/db"
	"github.com/shandysiswandi/gosocial/internal/chat/outbound/presence"
	"github.com/shandysiswandi/gosocial/internal/chat/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/config"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
)

type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (jwt.Claims, error)
}

type Dependency struct {
	Config        config.Config              `validate:"required"`
	DBConn        *pgxpool.Pool              `validate:"required"`
	Redis         redis.UniversalClient      `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Authenticator Authenticator              `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	UID           uid.NumberID               `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	Validator     validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		Presence:      presence.New(dep.Redis, dep.Config.GetMinute("chat.presence_ttl_minutes")),
		Authenticator: dep.Authenticator,
		Registry:      hub.NewRegistry(),
		Validator:     dep.Validator,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.SocketConfig{
		WriteWait:      dep.Config.GetSecond("chat.write_wait_seconds"),
		PongWait:       dep.Config.GetSecond("chat.pong_wait_seconds"),
		MaxMessageSize: dep.Config.GetInt64("chat.max_message_size"),
		AllowedOrigins: dep.Config.GetArray("chat.allowed_origins"),
	})

	return nil
}
