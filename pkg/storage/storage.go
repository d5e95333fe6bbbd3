package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
	"github.com/feichai0017/legaldoc-extractor/pkg/storage/minio"
	"github.com/feichai0017/legaldoc-extractor/pkg/storage/s3"
	"github.com/feichai0017/legaldoc-extractor/pkg/storage/storageerr"
)

type StorageType string

const (
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
	StorageTypeNone  StorageType = ""
)

var (
	// ErrNotFound is returned when no object exists at the requested path.
	ErrNotFound = storageerr.ErrNotFound
	// ErrDisabled is returned by every call when no backend is configured.
	ErrDisabled = errors.New("document storage is not configured")
)

// Storage reads stored filings by path. Uploads happen elsewhere.
type Storage interface {
	Get(ctx context.Context, path string) (io.ReadCloser, error)
}

// NewStorage builds the backend selected by cfg.Type.
func NewStorage(ctx context.Context, cfg *config.StorageConfig, log logger.Logger) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeS3:
		return s3.NewS3Storage(ctx, &cfg.S3, log)
	case StorageTypeMinio:
		return minio.NewMinioStorage(ctx, &cfg.Minio, log)
	case StorageTypeNone:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// Disabled rejects every read; path-based requests then fail with ErrDisabled.
type Disabled struct{}

func (Disabled) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, ErrDisabled
}

// ReadAll fetches a whole object, refusing objects larger than maxSize bytes.
func ReadAll(ctx context.Context, s Storage, path string, maxSize int64) ([]byte, error) {
	rc, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("object %q exceeds %d bytes", path, maxSize)
	}
	return data, nil
}
