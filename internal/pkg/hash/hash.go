// Package hash provides one-way hashing for passwords, one-time codes and
// idempotency keys.
package hash

import (
	"errors"
	"strings"
)

// ErrUnknownDriver is returned by New for an unsupported driver name.
var ErrUnknownDriver = errors.New("hash: unknown driver")

// Hash turns a secret into a self-describing digest and checks candidates
// against it. Implementations must be safe for concurrent use.
type Hash interface {
	Hash(plain string) ([]byte, error)
	Verify(hashed, plain string) bool
}

const (
	DriverBcrypt   = "bcrypt"
	DriverArgon2id = "argon2id"
)

// Config selects and tunes the password hasher.
type Config struct {
	Driver     string
	Pepper     string
	BcryptCost int
}

// New builds the password hasher named by cfg.Driver; bcrypt is used when empty.
func New(cfg Config) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverBcrypt:
		return NewBcrypt(cfg.BcryptCost, cfg.Pepper), nil
	case DriverArgon2id:
		return NewArgon2id(cfg.Pepper), nil
	default:
		return nil, ErrUnknownDriver
	}
}
