// Package storage persists uploaded post media and returns the URL it is
// served from.
package storage

import (
	"context"
	"fmt"
	"io"

	"fanhouse/pkg/config"
)

type Storage interface {
	Save(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New picks the backend named by STORAGE_DRIVER.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.UploadsDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
