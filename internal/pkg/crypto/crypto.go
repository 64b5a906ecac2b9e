// Package crypto seals small personal fields (phone numbers) at rest with
// AES-256-GCM.
//
// Sealed values are base64 text: version(2) | nonce(12) | ciphertext+tag.
// The owner id is bound as associated data, so a value copied onto another
// row fails to open.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

const (
	sealVersion uint16 = 1
	keySize            = 32
	nonceSize          = 12
	headerSize         = 2 + nonceSize
)

var (
	ErrKeySize   = errors.New("crypto: key must be 32 bytes")
	ErrEmpty     = errors.New("crypto: nothing to seal")
	ErrMalformed = errors.New("crypto: malformed sealed value")
	ErrVersion   = errors.New("crypto: unsupported sealed value version")
	ErrOpen      = errors.New("crypto: sealed value failed authentication")
)

// Cipher seals and opens values that belong to a single owner.
type Cipher interface {
	Seal(owner int64, plain string) (string, error)
	Open(owner int64, sealed string) (string, error)
}

// AESGCM implements Cipher with a static key.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM builds the cipher; key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != keySize {
		return nil, ErrKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: aes: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: gcm: %w", err)
	}

	return &AESGCM{aead: aead}, nil
}

func (c *AESGCM) Seal(owner int64, plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}

	out := make([]byte, headerSize, headerSize+len(plain)+c.aead.Overhead())
	binary.BigEndian.PutUint16(out, sealVersion)
	if _, err := rand.Read(out[2:headerSize]); err != nil {
		return "", fmt.Errorf("crypto: nonce: %w", err)
	}

	out = c.aead.Seal(out, out[2:headerSize], []byte(plain), ownerAAD(owner))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *AESGCM) Open(owner int64, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) <= headerSize {
		return "", ErrMalformed
	}
	if binary.BigEndian.Uint16(raw) != sealVersion {
		return "", ErrVersion
	}

	plain, err := c.aead.Open(nil, raw[2:headerSize], raw[headerSize:], ownerAAD(owner))
	if err != nil {
		return "", ErrOpen
	}
	return string(plain), nil
}

func ownerAAD(owner int64) []byte {
	return strconv.AppendInt([]byte("owner="), owner, 10)
}
