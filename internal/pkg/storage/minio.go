package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures the MinIO driver.
type MinIOOptions struct {
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	PublicURL string
}

// MinIO stores objects with minio-go.
type MinIO struct {
	client *minio.Client
	bucket string
	base   string
}

func NewMinIO(opts MinIOOptions) (*MinIO, error) {
	if opts.Bucket == "" {
		return nil, ErrBucket
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: minio client: %w", err)
	}

	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}
	return &MinIO{
		client: client,
		bucket: opts.Bucket,
		base:   baseURL(opts.PublicURL, scheme+"://"+opts.Endpoint+"/"+opts.Bucket),
	}, nil
}

func (m *MinIO) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error) {
	if size <= 0 {
		size = -1
	}
	info, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return Object{}, fmt.Errorf("storage: minio put %s: %w", key, err)
	}
	return Object{Key: key, URL: m.URL(key), Size: info.Size}, nil
}

func (m *MinIO) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *MinIO) URL(key string) string { return joinURL(m.base, key) }

func (m *MinIO) Close() error { return nil }
