package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/shandysiswandi/gosocial/internal/pkg/storage"
)

type seqID struct{ n int }

func (s *seqID) Generate() string {
	s.n++
	return "obj" + strings.Repeat("x", s.n)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestKeeperStore(t *testing.T) {
	// Arrange
	mem := storage.NewMemory("https://cdn.test")
	k := NewKeeper(mem, &seqID{}, 0)
	files := []File{NewFile("a.png", pngBytes(t)), NewFile("b.png", pngBytes(t))}

	// Act
	atts, err := k.Store(context.Background(), "posts/7", files)

	// Assert
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if len(atts) != 2 {
		t.Fatalf("attachments = %d, want 2", len(atts))
	}
	for _, a := range atts {
		if !strings.HasPrefix(a.Key, "posts/7/") || !strings.HasSuffix(a.Key, ".png") {
			t.Fatalf("key = %q", a.Key)
		}
		if a.URL != "https://cdn.test/"+a.Key {
			t.Fatalf("url = %q", a.URL)
		}
		if !mem.Has(a.Key) {
			t.Fatalf("object %q not stored", a.Key)
		}
	}
}

func TestKeeperRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		maxSize int64
		wantErr error
	}{
		{name: "text file", file: NewFile("a.txt", []byte("hello world")), wantErr: ErrUnsupportedType},
		{name: "too large", file: NewFile("a.png", pngBytes(t)), maxSize: 10, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			k := NewKeeper(storage.NewMemory(""), &seqID{}, tt.maxSize)

			// Act
			_, err := k.Store(context.Background(), "avatars", []File{tt.file})

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Store = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeeperRemove(t *testing.T) {
	// Arrange
	mem := storage.NewMemory("")
	k := NewKeeper(mem, &seqID{}, 0)
	atts, err := k.Store(context.Background(), "avatars", []File{NewFile("a.png", pngBytes(t))})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Act
	k.Remove(context.Background(), atts)

	// Assert
	if mem.Has(atts[0].Key) {
		t.Fatalf("object %q still stored", atts[0].Key)
	}
}
