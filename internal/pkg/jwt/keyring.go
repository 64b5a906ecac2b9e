package jwt

import (
	"errors"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Keys is the secret pair of one role.
type Keys struct {
	Access  []byte
	Refresh []byte
}

func (k Keys) of(kind Kind) []byte {
	if kind == KindRefresh {
		return k.Refresh
	}
	return k.Access
}

type clocker interface {
	Now() time.Time
}

type idGenerator interface {
	Generate() string
}

// Config configures a KeyRing.
type Config struct {
	Keys      map[Role]Keys
	Issuer    string
	Audiences []string
	TTL       Expiry
	Clock     clocker
	UUID      idGenerator
}

// KeyRing is the HS512 implementation of JWT.
type KeyRing struct {
	keys      map[Role]Keys
	issuer    string
	audiences []string
	ttl       Expiry
	clock     clocker
	uuid      idGenerator
}

// NewKeyRing checks every configured key before accepting them.
func NewKeyRing(cfg Config) (*KeyRing, error) {
	for _, k := range cfg.Keys {
		if len(k.Access) < MinKeySize || len(k.Refresh) < MinKeySize {
			return nil, ErrKeyTooShort
		}
	}

	return &KeyRing{
		keys:      cfg.Keys,
		issuer:    cfg.Issuer,
		audiences: cfg.Audiences,
		ttl:       cfg.TTL,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
	}, nil
}

func (r *KeyRing) Generate(role Role, kind Kind, uid int64, email string) (string, error) {
	keys, ok := r.keys[role]
	if !ok {
		return "", ErrUnknownRole
	}

	now := r.clock.Now()
	reg := libJWT.RegisteredClaims{
		ID:        r.uuid.Generate(),
		Subject:   strconv.FormatInt(uid, 10),
		Issuer:    r.issuer,
		Audience:  r.audiences,
		IssuedAt:  libJWT.NewNumericDate(now),
		NotBefore: libJWT.NewNumericDate(now),
	}
	if ttl := r.ttl.of(kind); ttl > 0 {
		reg.ExpiresAt = libJWT.NewNumericDate(now.Add(ttl))
	}

	return libJWT.NewWithClaims(libJWT.SigningMethodHS512, Claims{
		RegisteredClaims: reg,
		UserID:           uid,
		UserEmail:        email,
		Role:             role,
		Kind:             kind,
	}).SignedString(keys.of(kind))
}

func (r *KeyRing) Verify(role Role, kind Kind, token string) (Claims, error) {
	keys, ok := r.keys[role]
	if !ok {
		return Claims{}, ErrUnknownRole
	}

	var claims Claims
	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithTimeFunc(r.clock.Now),
	}
	if r.issuer != "" {
		opts = append(opts, libJWT.WithIssuer(r.issuer))
	}
	if len(r.audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(r.audiences...))
	}

	_, err := libJWT.ParseWithClaims(token, &claims, func(*libJWT.Token) (any, error) {
		return keys.of(kind), nil
	}, opts...)

	switch {
	case err == nil:
	case errors.Is(err, libJWT.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSignature
	case errors.Is(err, libJWT.ErrTokenExpired):
		return Claims{}, ErrExpired
	default:
		return Claims{}, errors.Join(ErrMalformed, err)
	}

	if claims.Kind != kind || claims.Role != role || claims.IssuedAt == nil {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
