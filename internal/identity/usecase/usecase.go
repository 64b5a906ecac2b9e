package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/gosocial/internal/identity/entity"
	"github.com/shandysiswandi/gosocial/internal/identity/passcode"
	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
	"github.com/shandysiswandi/gosocial/internal/pkg/config"
	"github.com/shandysiswandi/gosocial/internal/pkg/crypto"
	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/uid"
	"github.com/shandysiswandi/gosocial/internal/pkg/validator"
	"github.com/shandysiswandi/gosocial/internal/shared/upload"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultUserPrefix  = "Bearer"
	defaultAdminPrefix = "Admin"
)

type repoDB interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*entity.Account, error)
	CreateAccount(ctx context.Context, acc entity.NewAccount) error
	MarkConfirmed(ctx context.Context, id int64) error
	SetTwoFactor(ctx context.Context, id int64, enabled bool) error
	UpdatePassword(ctx context.Context, id int64, hash string, changedAt time.Time) error
}

type passcodes interface {
	Issue(ctx context.Context, in passcode.IssueInput) error
	Verify(ctx context.Context, in passcode.VerifyInput) (passcode.VerifyResult, error)
}

type googleVerifier interface {
	Verify(ctx context.Context, idToken string) (*entity.GoogleIdentity, error)
}

type uploader interface {
	Check(files []upload.File) error
	Store(ctx context.Context, dir string, files []upload.File) ([]upload.Attachment, error)
	Remove(ctx context.Context, atts []upload.Attachment)
}

type Usecase struct {
	repoDB    repoDB
	passcodes passcodes
	google    googleVerifier
	uploader  uploader
	validator validator.Validator
	cfg       config.Config
	bcrypt    hash.Hash
	cipher    crypto.Cipher
	uid       uid.NumberID
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Passcodes  passcodes
	Google     googleVerifier
	Uploader   uploader
	Validator  validator.Validator
	Config     config.Config
	Bcrypt     hash.Hash
	Cipher     crypto.Cipher
	UID        uid.NumberID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		passcodes: dep.Passcodes,
		google:    dep.Google,
		uploader:  dep.Uploader,
		validator: dep.Validator,
		cfg:       dep.Config,
		bcrypt:    dep.Bcrypt,
		cipher:    dep.Cipher,
		uid:       dep.UID,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// prefixes returns the authorization prefix of each role.
func (s *Usecase) prefixes() map[jwt.Role]string {
	user := strings.TrimSpace(s.cfg.GetString("auth.prefix.user"))
	if user == "" {
		user = defaultUserPrefix
	}
	admin := strings.TrimSpace(s.cfg.GetString("auth.prefix.admin"))
	if admin == "" {
		admin = defaultAdminPrefix
	}
	return map[jwt.Role]string{jwt.RoleUser: user, jwt.RoleAdmin: admin}
}

func (s *Usecase) roleOfPrefix(prefix string) (jwt.Role, bool) {
	for role, p := range s.prefixes() {
		if p == prefix {
			return role, true
		}
	}
	return "", false
}

// liveAccountByEmail loads an account that is not soft-deleted.
func (s *Usecase) liveAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	acc, err := s.repoDB.GetAccountByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if acc.Deleted() {
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	return acc, nil
}

// currentAccount loads the authenticated account.
func (s *Usecase) currentAccount(ctx context.Context) (*entity.Account, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	acc, err := s.repoDB.GetAccountByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by id", "account_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}
	return acc, nil
}

// issueTokens mints an access and refresh pair for acc.
func (s *Usecase) issueTokens(ctx context.Context, acc *entity.Account) (*LoginOutput, error) {
	role := acc.Role.JWTRole()

	access, err := s.jwt.Generate(role, jwt.KindAccess, acc.ID, acc.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refresh, err := s.jwt.Generate(role, jwt.KindRefresh, acc.ID, acc.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate refresh token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		TokenType:    s.prefixes()[role],
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
