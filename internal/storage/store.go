package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobpilot/internal/infra"
)

var (
	ErrNotFound   = errors.New("storage: object not found")
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Store is the CV blob store. Keys are slash separated and relative.
type Store interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *infra.Config) (Store, error) {
	switch cfg.StorageDriver {
	case infra.StorageDriverS3:
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case infra.StorageDriverLocal, "":
		return NewFileStore(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.StorageDriver)
	}
}

// CVKey builds a unique key for an uploaded CV, e.g.
// cvs/<user>/20240314-<uuid>.pdf.
func CVKey(userID, originalName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(originalName, "\\", "/")))
	if len(ext) > 8 {
		ext = ""
	}
	return fmt.Sprintf("cvs/%s/%s-%s%s", userID, now.UTC().Format("20060102"), uuid.NewString(), ext)
}
