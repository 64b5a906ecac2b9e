package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACSHA256 is a keyed, deterministic digest. It suits lookup keys, not passwords.
type HMACSHA256 struct {
	secret []byte
}

func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the lowercase hex digest.
func (h *HMACSHA256) Hash(plain string) ([]byte, error) {
	return h.sum(plain), nil
}

func (h *HMACSHA256) Verify(hashed, plain string) bool {
	return hmac.Equal([]byte(hashed), h.sum(plain))
}

func (h *HMACSHA256) sum(plain string) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(plain))
	return hex.AppendEncode(nil, mac.Sum(nil))
}
