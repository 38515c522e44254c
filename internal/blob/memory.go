package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raca159/simple-label-maker/internal/label"
)

// MemoryClient is an in-memory implementation of the BlobClient interface.
// It keeps all objects in a map, making it useful for tests and local
// development. This implementation is safe for concurrent use.
type MemoryClient struct {
	objects map[string]memoryObject
	mu      sync.RWMutex
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryClient creates an empty in-memory blob client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{objects: make(map[string]memoryObject)}
}

// Exists reports whether an object is present at the given key.
func (m *MemoryClient) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Get returns the content of the object at key.
func (m *MemoryClient) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", label.ErrKeyNotFound, key)
	}

	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// ContentType returns the stored content type for a key, or "" if absent.
func (m *MemoryClient) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key].contentType
}

// Put stores data at key, overwriting any existing object.
func (m *MemoryClient) Put(_ context.Context, key string, data []byte, contentType string) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: stored, contentType: contentType}
	return nil
}

// List returns every key starting with prefix, sorted.
func (m *MemoryClient) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// URL returns a memory scheme pseudo-URL. Useful only to keep dev flows
// working; the data endpoint serves actual bytes.
func (m *MemoryClient) URL(_ context.Context, key string) (string, error) {
	return "memory://" + key, nil
}

// Compile-time check that MemoryClient implements label.BlobClient
var _ label.BlobClient = (*MemoryClient)(nil)
