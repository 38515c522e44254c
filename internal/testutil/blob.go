package testutil

import (
	"context"
	"sync"

	"github.com/raca159/simple-label-maker/internal/blob"
	"github.com/raca159/simple-label-maker/internal/label"
)

// NewTestBlobClient creates a new in-memory blob client for testing.
func NewTestBlobClient() *blob.MemoryClient {
	return blob.NewMemoryClient()
}

// FailingBlobClient wraps a BlobClient and fails every call with the given
// error once armed. Use it to exercise storage-unavailable paths.
type FailingBlobClient struct {
	Inner label.BlobClient

	mu  sync.Mutex
	err error
}

// Fail arms the client: every subsequent call returns err.
func (f *FailingBlobClient) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *FailingBlobClient) failure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *FailingBlobClient) Exists(ctx context.Context, key string) (bool, error) {
	if err := f.failure(); err != nil {
		return false, err
	}
	return f.Inner.Exists(ctx, key)
}

func (f *FailingBlobClient) Get(ctx context.Context, key string) ([]byte, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	return f.Inner.Get(ctx, key)
}

func (f *FailingBlobClient) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := f.failure(); err != nil {
		return err
	}
	return f.Inner.Put(ctx, key, data, contentType)
}

func (f *FailingBlobClient) List(ctx context.Context, prefix string) ([]string, error) {
	if err := f.failure(); err != nil {
		return nil, err
	}
	return f.Inner.List(ctx, prefix)
}

func (f *FailingBlobClient) URL(ctx context.Context, key string) (string, error) {
	if err := f.failure(); err != nil {
		return "", err
	}
	return f.Inner.URL(ctx, key)
}

var _ label.BlobClient = (*FailingBlobClient)(nil)
