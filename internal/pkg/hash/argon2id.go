package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

// Argon2id produces PHC-formatted digests:
// $argon2id$v=19$m=<kib>,t=<iter>,p=<threads>$<salt>$<key>.
type Argon2id struct {
	params  argonParams
	saltLen int
	keyLen  uint32
	pepper  string
}

// NewArgon2id uses 32 MiB, 3 passes and 2 lanes.
func NewArgon2id(pepper string) *Argon2id {
	return &Argon2id{
		params:  argonParams{memory: 32 * 1024, time: 3, threads: 2},
		saltLen: 16,
		keyLen:  32,
		pepper:  pepper,
	}
}

func (a *Argon2id) Hash(plain string) ([]byte, error) {
	salt := make([]byte, a.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("hash: argon2id salt: %w", err)
	}

	key := a.derive(plain, salt, a.params, a.keyLen)
	enc := base64.RawStdEncoding
	return fmt.Appendf(nil, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.params.memory, a.params.time, a.params.threads,
		enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

func (a *Argon2id) Verify(hashed, plain string) bool {
	fields := strings.Split(hashed, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var p argonParams
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return false
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(fields[4])
	if err != nil {
		return false
	}
	want, err := enc.DecodeString(fields[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := a.derive(plain, salt, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1
}

func (a *Argon2id) derive(plain string, salt []byte, p argonParams, keyLen uint32) []byte {
	return argon2.IDKey([]byte(plain+a.pepper), salt, p.time, p.memory, p.threads, keyLen)
}
