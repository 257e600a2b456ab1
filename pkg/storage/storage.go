package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/langtutor/content-pipeline/pkg/logger"
	"github.com/langtutor/content-pipeline/pkg/storage/local"
	"github.com/langtutor/content-pipeline/pkg/storage/minio"
	"github.com/langtutor/content-pipeline/pkg/storage/s3"
)

// StorageType selects the backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// Storage persists uploaded source files and serialized artifacts.
type Storage interface {
	// Store writes the reader's content and returns the object key.
	Store(ctx context.Context, reader io.Reader, filename string) (string, error)
	// Get opens the object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object.
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes objects older than the threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage is the factory for storage backends.
func NewStorage(storageType StorageType, log logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeLocal:
		return local.GetClient(log)
	case StorageTypeS3:
		return s3.GetClient(log)
	case StorageTypeMinio:
		return minio.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
