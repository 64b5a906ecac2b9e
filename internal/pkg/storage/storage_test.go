package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemory_PutDelete(t *testing.T) {
	// Arrange
	m := NewMemory("https://cdn.gosocial.test/")

	// Act
	obj, err := m.Put(context.Background(), "avatars/1.png", strings.NewReader("png"), 3, "image/png")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Assert
	if obj.URL != "https://cdn.gosocial.test/avatars/1.png" || obj.Size != 3 {
		t.Fatalf("Put() = %+v", obj)
	}
	if !m.Has("avatars/1.png") {
		t.Fatalf("object not stored")
	}
	if err := m.Delete(context.Background(), "avatars/1.png"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if m.Has("avatars/1.png") {
		t.Fatalf("object still stored after Delete")
	}
}

func TestNewFromDriver(t *testing.T) {
	if _, err := NewFromDriver(context.Background(), "ftp", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("NewFromDriver() error = %v, want ErrUnknownDriver", err)
	}
	if _, err := NewFromDriver(context.Background(), "minio", FactoryOptions{}); !errors.Is(err, ErrBucket) {
		t.Fatalf("NewFromDriver() error = %v, want ErrBucket", err)
	}
}

func TestJoinURL(t *testing.T) {
	if got := joinURL(baseURL("", "https://storage.googleapis.com/b"), "/posts/9.jpg"); got != "https://storage.googleapis.com/b/posts/9.jpg" {
		t.Fatalf("joinURL() = %q", got)
	}
}
