// Package otp generates short numeric one-time codes.
//
// Codes come from HOTP (RFC 4226) over a fresh random secret and counter, so
// they are uniformly distributed and zero-padded to the configured width.
package otp

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// DefaultDigits is the length of codes sent to users.
const DefaultDigits = 4

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates fixed-width decimal codes.
type Numeric struct {
	digits otp.Digits
}

// NewNumeric returns a generator of digits-long codes; non-positive means DefaultDigits.
func NewNumeric(digits int) *Numeric {
	if digits <= 0 {
		digits = DefaultDigits
	}
	return &Numeric{digits: otp.Digits(digits)}
}

// Generate returns a new code such as "0427".
func (n *Numeric) Generate() (string, error) {
	var seed [28]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return "", fmt.Errorf("otp: seed: %w", err)
	}

	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(seed[:20])
	counter := binary.BigEndian.Uint64(seed[20:])

	return hotp.GenerateCodeCustom(secret, counter, hotp.ValidateOpts{
		Digits:    n.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}
