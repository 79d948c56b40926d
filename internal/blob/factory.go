package blob

import (
	"context"
	"fmt"

	"oshalog/config"
)

// Open selects the Store named by config.BlobDriver (fs when empty).
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	driver := Driver(cfg.BlobDriver)
	if driver == "" {
		driver = DriverFilesystem
	}

	switch driver {
	case DriverFilesystem:
		return NewFilesystem(cfg.BlobRoot)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.BlobS3Bucket,
			Region:    cfg.BlobS3Region,
			Endpoint:  cfg.BlobS3Endpoint,
			PathStyle: cfg.BlobS3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
