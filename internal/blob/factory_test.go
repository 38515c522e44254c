package blob

import (
	"context"
	"testing"

	"github.com/raca159/simple-label-maker/internal/config"
)

func TestNewClientFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		client, err := NewClientFromConfig(ctx, config.StorageConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewClientFromConfig() error = %v", err)
		}
		if _, ok := client.(*MemoryClient); !ok {
			t.Errorf("client = %T, want *MemoryClient", client)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		client, err := NewClientFromConfig(ctx, config.StorageConfig{
			Type:   "filesystem",
			FSRoot: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("NewClientFromConfig() error = %v", err)
		}
		if _, ok := client.(*FileSystemClient); !ok {
			t.Errorf("client = %T, want *FileSystemClient", client)
		}
	})

	t.Run("filesystem without root", func(t *testing.T) {
		if _, err := NewClientFromConfig(ctx, config.StorageConfig{Type: "filesystem"}); err == nil {
			t.Error("NewClientFromConfig() succeeded without fs_root")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewClientFromConfig(ctx, config.StorageConfig{Type: "tape"}); err == nil {
			t.Error("NewClientFromConfig() succeeded for unknown type")
		}
	})
}
