package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gosocial/internal/chat"
	"github.com/shandysiswandi/gosocial/internal/identity"
	"github.com/shandysiswandi/gosocial/internal/notification"
	"github.com/shandysiswandi/gosocial/internal/post"
	"github.com/shandysiswandi/gosocial/internal/user"
)

// initModules wires identity first: users need its passcode manager and chat
// needs its authenticator.
func (a *App) initModules() {
	idm, err := identity.New(identity.Dependency{
		Ctx:        a.ctx,
		DBConn:     a.dbConn,
		Goroutine:  a.goroutine,
		Router:     a.router,
		Messaging:  a.messaging,
		Uploader:   a.uploader,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		Bcrypt:     a.password,
		Cipher:     a.cipher,
		Clock:      a.clock,
		Validator:  a.validator,
		JWT:        a.jwt,
	})
	if err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.user.enabled") {
		if err := user.New(user.Dependency{
			DBConn:     a.dbConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Passcodes:  idm.Passcodes,
			Uploader:   a.uploader,
			Instrument: a.ins,
			Bcrypt:     a.password,
			Cipher:     a.cipher,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module user", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.post.enabled") {
		if err := post.New(post.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Uploader:   a.uploader,
			Enforcer:   a.casbin,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module post", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.chat.enabled") {
		if err := chat.New(chat.Dependency{
			Config:        a.config,
			DBConn:        a.dbConn,
			Redis:         a.cacheConn,
			Router:        a.router,
			Authenticator: idm.Authenticator,
			Instrument:    a.ins,
			UID:           a.uid,
			Clock:         a.clock,
			Validator:     a.validator,
		}); err != nil {
			slog.Error("failed to init module chat", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Config:      a.config,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			KeyHash:     a.keyHash,
			Mail:        a.mail,
			Goroutine:   a.goroutine,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
