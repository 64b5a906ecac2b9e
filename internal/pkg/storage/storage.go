// Package storage keeps user uploads (avatars, post and comment images) in
// an object store bound to one bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrUnknownDriver = errors.New("storage: unknown driver")
	ErrBucket        = errors.New("storage: bucket is required")
)

// Object describes a stored upload.
type Object struct {
	Key  string
	URL  string
	Size int64
}

// Storage writes, removes and addresses objects.
type Storage interface {
	io.Closer
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
}

func baseURL(custom, fallback string) string {
	if custom == "" {
		custom = fallback
	}
	return strings.TrimRight(custom, "/")
}

func joinURL(base, key string) string {
	return base + "/" + strings.TrimLeft(key, "/")
}
