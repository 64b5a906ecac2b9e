package jwt

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/gosocial/internal/pkg/clock"
)

type seqID struct{}

func (seqID) Generate() string { return "jti-1" }

func newTestRing(t *testing.T, c clocker) *KeyRing {
	t.Helper()
	ring, err := NewKeyRing(Config{
		Keys: map[Role]Keys{
			RoleUser:  {Access: bytes.Repeat([]byte("a"), 64), Refresh: bytes.Repeat([]byte("b"), 64)},
			RoleAdmin: {Access: bytes.Repeat([]byte("c"), 64), Refresh: bytes.Repeat([]byte("d"), 64)},
		},
		Issuer:    "gosocial",
		Audiences: []string{"gosocial-api"},
		TTL:       Expiry{Access: 15 * time.Minute, Refresh: 24 * time.Hour},
		Clock:     c,
		UUID:      seqID{},
	})
	if err != nil {
		t.Fatalf("NewKeyRing() error = %v", err)
	}
	return ring
}

func TestKeyRing_GenerateVerify(t *testing.T) {
	// Arrange
	now := time.Now().Truncate(time.Second)
	ring := newTestRing(t, clock.NewManual(now))

	// Act
	token, err := ring.Generate(RoleUser, KindAccess, 77, "a@b.test")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	claims, err := ring.Verify(RoleUser, KindAccess, token)

	// Assert
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 77 || claims.UserEmail != "a@b.test" || claims.IssuedAtUnix() != now.Unix() {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestKeyRing_WrongKey(t *testing.T) {
	ring := newTestRing(t, clock.NewManual(time.Now()))
	token, err := ring.Generate(RoleUser, KindAccess, 1, "a@b.test")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name string
		role Role
		kind Kind
	}{
		{name: "refresh key", role: RoleUser, kind: KindRefresh},
		{name: "other role", role: RoleAdmin, kind: KindAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ring.Verify(tt.role, tt.kind, token); !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("Verify() error = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestKeyRing_Expired(t *testing.T) {
	// Arrange
	c := clock.NewManual(time.Now())
	ring := newTestRing(t, c)
	token, err := ring.Generate(RoleUser, KindAccess, 1, "a@b.test")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Act
	c.Advance(16 * time.Minute)
	_, err = ring.Verify(RoleUser, KindAccess, token)

	// Assert
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("Verify() error = %v, want ErrExpired", err)
	}
}

func TestKeyRing_Malformed(t *testing.T) {
	ring := newTestRing(t, clock.NewManual(time.Now()))

	if _, err := ring.Verify(RoleUser, KindAccess, "not-a-token"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Verify() error = %v, want ErrMalformed", err)
	}
	if _, err := ring.Verify(Role("guest"), KindAccess, "x"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("Verify() error = %v, want ErrUnknownRole", err)
	}
}

func TestNewKeyRing_ShortKey(t *testing.T) {
	_, err := NewKeyRing(Config{Keys: map[Role]Keys{RoleUser: {Access: []byte("x"), Refresh: []byte("y")}}})
	if !errors.Is(err, ErrKeyTooShort) {
		t.Fatalf("NewKeyRing() error = %v, want ErrKeyTooShort", err)
	}
}
