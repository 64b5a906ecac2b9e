package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSOptions configures the Google Cloud Storage driver.
type GCSOptions struct {
	Bucket        string
	ClientOptions []option.ClientOption
	PublicURL     string
}

// GCS stores objects with cloud.google.com/go/storage.
type GCS struct {
	client *gcs.Client
	bucket string
	base   string
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	if opts.Bucket == "" {
		return nil, ErrBucket
	}

	client, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: gcs client: %w", err)
	}

	return &GCS{
		client: client,
		bucket: opts.Bucket,
		base:   baseURL(opts.PublicURL, "https://storage.googleapis.com/"+opts.Bucket),
	}, nil
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	n, err := io.Copy(w, r)
	if err != nil {
		return Object{}, errors.Join(fmt.Errorf("storage: gcs put %s: %w", key, err), w.Close())
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("storage: gcs put %s: %w", key, err)
	}
	return Object{Key: key, URL: g.URL(key), Size: n}, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) URL(key string) string { return joinURL(g.base, key) }

func (g *GCS) Close() error { return g.client.Close() }
