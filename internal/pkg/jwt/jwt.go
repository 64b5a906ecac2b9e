package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeySize is the shortest HS512 secret accepted.
const MinKeySize = 64

var (
	ErrKeyTooShort      = errors.New("jwt: HS512 key must be at least 64 bytes")
	ErrUnknownRole      = errors.New("jwt: no keys for role")
	ErrInvalidSignature = errors.New("jwt: invalid signature")
	ErrExpired          = errors.New("jwt: token expired")
	ErrMalformed        = errors.New("jwt: malformed token")
)

// Role selects a key pair.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Kind is the token purpose.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// JWT issues and verifies session tokens.
type JWT interface {
	Generate(role Role, kind Kind, uid int64, email string) (string, error)
	Verify(role Role, kind Kind, token string) (Claims, error)
}

// Claims are the session token claims. IssuedAt is always set.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
	Role      Role   `json:"role"`
	Kind      Kind   `json:"kind"`
}

// IssuedAtUnix is iat in seconds, zero when absent.
func (c Claims) IssuedAtUnix() int64 {
	if c.IssuedAt == nil {
		return 0
	}
	return c.IssuedAt.Unix()
}

type authKey struct{}

// GetAuth returns the claims stored by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth attaches authenticated claims to ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}

// Expiry reports when a token of kind minted now expires.
type Expiry struct {
	Access  time.Duration
	Refresh time.Duration
}

func (e Expiry) of(k Kind) time.Duration {
	if k == KindRefresh {
		return e.Refresh
	}
	return e.Access
}
