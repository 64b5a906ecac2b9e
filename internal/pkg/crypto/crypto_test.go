package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func newTestCipher(t *testing.T) *AESGCM {
	t.Helper()
	c, err := NewAESGCM(bytes.Repeat([]byte{7}, 32))
	if err != nil {
		t.Fatalf("NewAESGCM() error = %v", err)
	}
	return c
}

func TestAESGCM_RoundTrip(t *testing.T) {
	// Arrange
	c := newTestCipher(t)

	// Act
	sealed, err := c.Seal(42, "01012345678")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	plain, err := c.Open(42, sealed)

	// Assert
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if plain != "01012345678" {
		t.Fatalf("Open() = %q", plain)
	}
}

func TestAESGCM_OwnerBound(t *testing.T) {
	c := newTestCipher(t)
	sealed, err := c.Seal(42, "01012345678")
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	if _, err := c.Open(43, sealed); !errors.Is(err, ErrOpen) {
		t.Fatalf("Open() error = %v, want ErrOpen", err)
	}
}

func TestAESGCM_Errors(t *testing.T) {
	c := newTestCipher(t)

	if _, err := NewAESGCM([]byte("short")); !errors.Is(err, ErrKeySize) {
		t.Fatalf("NewAESGCM() error = %v", err)
	}
	if _, err := c.Seal(1, ""); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Seal() error = %v", err)
	}
	if _, err := c.Open(1, "%%%"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := c.Open(1, "AAIAAAAAAAAAAAAAAAAA"); !errors.Is(err, ErrVersion) {
		t.Fatalf("Open() error = %v", err)
	}
}
