package storage

import (
	"context"
	"fmt"

	"github.com/xavierca1/seller-console/internal/config"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// Open returns the store selected by EXPORT_STORAGE.
func Open(ctx context.Context, cfg *config.Config) (usecase.ExportStore, error) {
	switch cfg.ExportStorage {
	case "", "local":
		return NewLocalStore(cfg.ExportLocalPath)
	case "s3":
		return NewS3Store(ctx, S3Config{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("EXPORT_STORAGE desconhecido: %q", cfg.ExportStorage)
	}
}
