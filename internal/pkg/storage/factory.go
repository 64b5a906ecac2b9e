package storage

import (
	"context"
	"fmt"
	"strings"
)

const (
	DriverMemory = "memory"
	DriverS3     = "s3"
	DriverGCS    = "gcs"
	DriverMinIO  = "minio"
)

// FactoryOptions holds every driver's options; only the selected one is read.
type FactoryOptions struct {
	S3        S3Options
	GCS       GCSOptions
	MinIO     MinIOOptions
	MemoryURL string
}

// NewFromDriver builds the Storage named by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverMemory:
		return NewMemory(opts.MemoryURL), nil
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.GCS)
	case DriverMinIO:
		return NewMinIO(opts.MinIO)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
