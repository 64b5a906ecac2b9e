package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/crypto"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
	"github.com/shandysiswandi/gosocial/internal/user/entity"
	"go.opentelemetry.io/otel/trace"
)

// ViewHistorySize is how many view timestamps are kept per viewer.
const ViewHistorySize = 5

type repoDB interface {
	GetAccount(ctx context.Context, id int64) (*entity.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	UpdateProfile(ctx context.Context, in entity.ProfileUpdate) error
	UpdatePassword(ctx context.Context, id int64, hash string, changedAt time.Time) error
	ListFriends(ctx context.Context, id int64) ([]entity.Friend, error)

	IsBlocked(ctx context.Context, blockerID, blockedID int64) (bool, error)
	Block(ctx context.Context, blockerID, blockedID int64) error
	Unblock(ctx context.Context, blockerID, blockedID int64) error
	ToggleFriend(ctx context.Context, a, b int64) (bool, error)

	RecordView(ctx context.Context, ownerID, viewerID int64, at time.Time, keep int) (entity.ProfileView, error)

	SetTempEmail(ctx context.Context, id int64, email string) error
	SwapEmail(ctx context.Context, id int64, changedAt time.Time) (string, error)
}

type repoMessaging interface {
	PublishProfileViews(ctx context.Context, ev ProfileViewsEvent) error
}

type passcodes interface {
	Issue(ctx context.Context, in passcode.IssueInput) error
	Verify(ctx context.Context, in passcode.VerifyInput) (passcode.VerifyResult, error)
}

type uploader interface {
	Check(files []upload.File) error
	Store(ctx context.Context, dir string, files []upload.File) ([]upload.Attachment, error)
	Remove(ctx context.Context, atts []upload.Attachment)
}

type runner interface {
	Go(ctx context.Context, name string, fn func(context.Context) error) bool
}

// ProfileViewsEvent tells an owner who keeps looking at their profile.
type ProfileViewsEvent struct {
	OwnerEmail string
	OwnerName  string
	ViewerName string
	TotalViews int64
	ViewedAt   []time.Time
}

type Usecase struct {
	repoDB    repoDB
	repoMsg   repoMessaging
	passcodes passcodes
	uploader  uploader
	runner    runner
	validator validator.Validator
	bcrypt    hash.Hash
	cipher    crypto.Cipher
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Passcodes     passcodes
	Uploader      uploader
	Runner        runner
	Validator     validator.Validator
	Bcrypt        hash.Hash
	Cipher        crypto.Cipher
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoMsg:   dep.RepoMessaging,
		passcodes: dep.Passcodes,
		uploader:  dep.Uploader,
		runner:    dep.Runner,
		validator: dep.Validator,
		bcrypt:    dep.Bcrypt,
		cipher:    dep.Cipher,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("user.usecase").Start(ctx, name)
}

var errUnauthenticated = goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)

// me loads the authenticated account.
func (s *Usecase) me(ctx context.Context) (*entity.Account, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, errUnauthenticated
	}

	acc, err := s.repoDB.GetAccount(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errUnauthenticated
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account", "account_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return acc, nil
}

// liveAccount loads another account, hiding soft-deleted ones.
func (s *Usecase) liveAccount(ctx context.Context, id int64) (*entity.Account, error) {
	acc, err := s.repoDB.GetAccount(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account", "account_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}
	if acc.Deleted() {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	return acc, nil
}

func (s *Usecase) liveAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	acc, err := s.repoDB.GetAccountByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if acc.Deleted() {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	return acc, nil
}

func (s *Usecase) blocked(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	ok, err := s.repoDB.IsBlocked(ctx, blockerID, blockedID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo check block", "blocker_id", blockerID, "blocked_id", blockedID, "error", err)
		return false, goerror.NewServer(err)
	}
	return ok, nil
}
