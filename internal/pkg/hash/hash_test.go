package hash

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hash{
		"bcrypt":   NewBcrypt(bcrypt.MinCost, "pep"),
		"argon2id": NewArgon2id("pep"),
		"hmac":     NewHMACSHA256("secret"),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			// Arrange
			digest, err := h.Hash("0427")
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}

			// Act & Assert
			if !h.Verify(string(digest), "0427") {
				t.Fatalf("Verify() = false for the hashed value")
			}
			if h.Verify(string(digest), "0428") {
				t.Fatalf("Verify() = true for a different value")
			}
			if h.Verify("", "0427") {
				t.Fatalf("Verify() = true for an empty digest")
			}
		})
	}
}

func TestBcrypt_PepperMatters(t *testing.T) {
	digest, err := NewBcrypt(bcrypt.MinCost, "a").Hash("Secret123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if NewBcrypt(bcrypt.MinCost, "b").Verify(string(digest), "Secret123") {
		t.Fatalf("Verify() accepted a digest made with another pepper")
	}
}

func TestArgon2id_RejectsMalformed(t *testing.T) {
	h := NewArgon2id("")
	for _, in := range []string{"plain", "$argon2i$v=19$m=1,t=1,p=1$YQ$YQ", "$argon2id$v=19$m=x$YQ$YQ"} {
		if h.Verify(in, "x") {
			t.Fatalf("Verify(%q) = true", in)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr error
	}{
		{driver: ""},
		{driver: "bcrypt"},
		{driver: "Argon2id"},
		{driver: "md5", wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			_, err := New(Config{Driver: tt.driver, BcryptCost: bcrypt.MinCost})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
