package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"lawqna-backend/config"

	"github.com/google/uuid"
)

// Storage stores reference document files.
type Storage interface {
	// Upload stores a file and returns the storage path.
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a file by storage path.
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a file by storage path.
	Delete(ctx context.Context, storagePath string) error
}

// NewStorage selects a storage backend from settings.
func NewStorage(settings *config.Settings) (Storage, error) {
	switch settings.StorageType {
	case "local":
		return NewLocalStorage(settings.StorageLocalPath)
	case "s3":
		if settings.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for s3 storage")
		}
		return NewS3Storage(settings)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", settings.StorageType)
	}
}

// storagePathFor generates a unique storage path for a file, keyed by the
// file id so repeated uploads of the same name never collide.
func storagePathFor(fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(base)
	return fmt.Sprintf("%s/%s_%s%s", fileID.String()[:2], fileID.String(), base, ext)
}
