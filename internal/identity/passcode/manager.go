package passcode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/otp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type clocker interface {
	Now() time.Time
}

// runner starts fire-and-forget work; goroutine.Manager satisfies it.
type runner interface {
	Go(ctx context.Context, name string, fn func(context.Context) error) bool
}

type Dependency struct {
	Store      Store
	Dispatcher Dispatcher
	Hash       hash.Hash
	Generator  otp.Generator
	Clock      clocker
	Runner     runner
	Instrument instrument.Instrumentation
}

// Manager runs the code lifecycle on top of a Store.
type Manager struct {
	store      Store
	dispatcher Dispatcher
	hash       hash.Hash
	gen        otp.Generator
	clock      clocker
	runner     runner
	ins        instrument.Instrumentation
}

func NewManager(dep Dependency) *Manager {
	return &Manager{
		store:      dep.Store,
		dispatcher: dep.Dispatcher,
		hash:       dep.Hash,
		gen:        dep.Generator,
		clock:      dep.Clock,
		runner:     dep.Runner,
		ins:        dep.Instrument,
	}
}

func (m *Manager) startSpan(ctx context.Context, name string, p Purpose, accountID int64) (context.Context, trace.Span) {
	return m.ins.Tracer("identity.passcode").Start(ctx, name, trace.WithAttributes(
		attribute.String("passcode.purpose", p.String()),
		attribute.Int64("account.id", accountID),
	))
}

// Issue stores a fresh code for the account and purpose and sends it in the
// background. A delivery failure is logged; the code stays issued.
func (m *Manager) Issue(ctx context.Context, in IssueInput) error {
	ctx, span := m.startSpan(ctx, "Issue", in.Purpose, in.AccountID)
	defer span.End()

	if !in.Purpose.Valid() {
		return goerror.NewServer(ErrUnknownPurpose)
	}

	acc, err := m.store.GetAccount(ctx, in.AccountID)
	if errors.Is(err, goerror.ErrNotFound) {
		return errAccountNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get passcode account", "account_id", in.AccountID, "error", err)
		return goerror.NewServer(err)
	}

	if in.Purpose == PurposeEmailConfirm && acc.Confirmed {
		return errAlreadyConfirmed()
	}

	now := m.clock.Now()

	prev, err := m.store.GetCode(ctx, acc.ID, in.Purpose)
	switch {
	case errors.Is(err, goerror.ErrNotFound):
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo get passcode", "account_id", acc.ID, "purpose", in.Purpose, "error", err)
		return goerror.NewServer(err)
	case prev.Locked(now):
		return errTemporarilyBanned()
	}

	code, err := m.gen.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := m.hash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash passcode", "error", err)
		return goerror.NewServer(err)
	}

	if err := m.store.SaveCode(ctx, Record{
		AccountID: acc.ID,
		Purpose:   in.Purpose,
		CodeHash:  string(codeHash),
		IssuedAt:  now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo save passcode", "account_id", acc.ID, "purpose", in.Purpose, "error", err)
		return goerror.NewServer(err)
	}

	to := in.Destination
	if to == "" {
		to = acc.Email
	}
	m.dispatch(ctx, Delivery{AccountID: acc.ID, To: to, Name: acc.Name, Purpose: in.Purpose, Code: code})

	return nil
}

func (m *Manager) dispatch(ctx context.Context, d Delivery) {
	started := m.runner.Go(ctx, "passcode.dispatch", func(ctx context.Context) error {
		if err := m.dispatcher.Dispatch(ctx, d); err != nil {
			slog.ErrorContext(ctx, "failed to dispatch passcode", "account_id", d.AccountID, "purpose", d.Purpose, "error", err)
		}
		return nil
	})
	if !started {
		slog.WarnContext(ctx, "passcode dispatch dropped", "account_id", d.AccountID, "purpose", d.Purpose)
	}
}

// Verify checks code against the live record. Checks run in this order:
// record missing, lockout active, code stale, hash compare.
func (m *Manager) Verify(ctx context.Context, in VerifyInput) (VerifyResult, error) {
	ctx, span := m.startSpan(ctx, "Verify", in.Purpose, in.AccountID)
	defer span.End()

	rec, err := m.store.GetCode(ctx, in.AccountID, in.Purpose)
	if errors.Is(err, goerror.ErrNotFound) {
		return VerifyResult{}, errOtpNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get passcode", "account_id", in.AccountID, "purpose", in.Purpose, "error", err)
		return VerifyResult{}, goerror.NewServer(err)
	}
	if rec.CodeHash == "" {
		return VerifyResult{}, errOtpNotFound()
	}

	now := m.clock.Now()
	if rec.Locked(now) {
		return VerifyResult{}, errTemporarilyBanned()
	}
	if rec.Expired(now) {
		return VerifyResult{}, errOtpExpired()
	}

	if m.hash.Verify(rec.CodeHash, in.Code) {
		err := m.store.DeleteCode(ctx, in.AccountID, in.Purpose, rec.CodeHash)
		if errors.Is(err, goerror.ErrNotFound) {
			// Consumed or replaced by a concurrent call.
			return VerifyResult{}, errOtpNotFound()
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo delete passcode", "account_id", in.AccountID, "purpose", in.Purpose, "error", err)
			return VerifyResult{}, goerror.NewServer(err)
		}
		return VerifyResult{AccountID: in.AccountID, Purpose: in.Purpose, VerifiedAt: now}, nil
	}

	fail, err := m.store.RegisterFailure(ctx, in.AccountID, in.Purpose, MaxAttempts, now)
	if errors.Is(err, goerror.ErrNotFound) {
		// Consumed or replaced by a concurrent call.
		return VerifyResult{}, errOtpNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo register passcode failure", "account_id", in.AccountID, "purpose", in.Purpose, "error", err)
		return VerifyResult{}, goerror.NewServer(err)
	}

	if fail.Locked {
		slog.WarnContext(ctx, "passcode lockout started", "account_id", in.AccountID, "purpose", in.Purpose)
		return VerifyResult{}, errTooManyAttempts()
	}

	return VerifyResult{}, errInvalidCode(MaxAttempts - fail.Attempts)
}
