package blob

import (
	"context"
	"fmt"

	"github.com/raca159/simple-label-maker/internal/config"
	"github.com/raca159/simple-label-maker/internal/label"
)

// NewClientFromConfig creates a BlobClient implementation based on the
// storage config type.
func NewClientFromConfig(ctx context.Context, cfg config.StorageConfig) (label.BlobClient, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryClient(), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem storage requires fs_root to be set")
		}
		return NewFileSystemClient(cfg.FSRoot)
	case "s3":
		return NewS3Client(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
