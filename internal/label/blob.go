package label

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by BlobClient.Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// BlobClient provides the object-storage primitives the annotation store
// needs. Prefix listing is the only query capability; there is no rename,
// no delete, and no compare-and-swap.
type BlobClient interface {
	// Exists reports whether an object is present at the given key.
	Exists(ctx context.Context, key string) (bool, error)

	// Get returns the full content of the object at key.
	// Returns ErrKeyNotFound (possibly wrapped) if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data at key with the given content type, overwriting any
	// existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// List returns every key starting with prefix, in one finite pass.
	List(ctx context.Context, prefix string) ([]string, error)

	// URL resolves a key to a fetchable URL (presigned for cloud
	// backends, file:// for local ones). The key is not checked for
	// existence; callers that need a guarantee call Exists first.
	URL(ctx context.Context, key string) (string, error)
}
