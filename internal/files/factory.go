package files

import (
	"context"
	"fmt"

	"github.com/frahmantamala/people-console/internal"
)

// New picks the backend named by cfg.Driver.
func New(ctx context.Context, cfg internal.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.BaseDir, cfg.Prefix)
	case "s3":
		return NewS3StoreFromEnv(ctx, cfg.Region, cfg.Bucket, cfg.Prefix)
	case "gcs":
		return NewGCSStore(ctx, cfg.Bucket, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
