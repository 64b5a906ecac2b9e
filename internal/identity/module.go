package identity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gosocial/internal/identity/inbound"
	"github.com/shandysiswandi/gosocial/internal/identity/outbound/db"
	"github.com/shandysiswandi/gosocial/internal/identity/outbound/google"
	"github.com/shandysiswandi/gosocial/internal/identity/outbound/mq"
	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/identity/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/config"
	"github.com/shandysiswandi/gosocial/internal/pkg/crypto"
	"github.com/shandysiswandi/gosocial/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/pkg/otp"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Uploader   *upload.Keeper             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Cipher     crypto.Cipher              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

// Module is what other modules may use from identity.
type Module struct {
	// Passcodes issues and verifies one-time codes for any purpose.
	Passcodes *passcode.Manager
	// Authenticator checks access tokens for the router and the chat socket.
	Authenticator *usecase.Usecase
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	dbIdentity := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	passcodes := passcode.NewManager(passcode.Dependency{
		Store:      dbIdentity,
		Dispatcher: repoMsg,
		Hash:       dep.Bcrypt,
		Generator:  otp.NewNumeric(dep.Config.GetInt("otp.digits")),
		Clock:      dep.Clock,
		Runner:     dep.Goroutine,
		Instrument: dep.Instrument,
	})

	ucDep := usecase.Dependency{
		RepoDB:     dbIdentity,
		Passcodes:  passcodes,
		Uploader:   dep.Uploader,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Bcrypt:     dep.Bcrypt,
		Cipher:     dep.Cipher,
		UID:        dep.UID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	}

	if clientID := dep.Config.GetString("google.client_id"); clientID != "" {
		verifier, err := google.NewVerifier(dep.Ctx, clientID, dep.Instrument)
		if err != nil {
			return nil, err
		}
		ucDep.Google = verifier
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	dep.Router.SetAuthenticator(uc)

	return &Module{Passcodes: passcodes, Authenticator: uc}, nil
}
