package user

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/crypto"
	"github.com/shandysiswandi/gosocial/internal/pkg/goroutine"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
	"github.com/shandysiswandi/gosocial/internal/user/inbound"
	"github.com/shandysiswandi/gosocial/internal/user/outbound/db"
	"github.com/shandysiswandi/gosocial/internal/user/outbound/mq"
	"github.com/shandysiswandi/gosocial/internal/user/usecase"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Passcodes  *passcode.Manager          `validate:"required"`
	Uploader   *upload.Keeper             `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Cipher     crypto.Cipher              `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        db.NewDB(dep.DBConn, dep.Instrument),
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Passcodes:     dep.Passcodes,
		Uploader:      dep.Uploader,
		Runner:        dep.Goroutine,
		Validator:     dep.Validator,
		Bcrypt:        dep.Bcrypt,
		Cipher:        dep.Cipher,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
