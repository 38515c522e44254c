package blob

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raca159/simple-label-maker/internal/label"
)

// FileSystemClient is a filesystem-backed implementation of the BlobClient
// interface. Objects live under a root directory mirroring their key paths,
// with content types recorded in a parallel tree:
//
//	<root>/
//	  objects/
//	    <key>          (object content, keys may contain slashes)
//	  meta/
//	    <key>          (stored content type, one line)
type FileSystemClient struct {
	root       string
	objectsDir string
	metaDir    string
}

// NewFileSystemClient creates a filesystem blob client rooted at the given
// path, creating the directory structure if needed.
func NewFileSystemClient(root string) (*FileSystemClient, error) {
	objectsDir := filepath.Join(root, "objects")
	metaDir := filepath.Join(root, "meta")

	if err := os.MkdirAll(objectsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create objects directory: %w", err)
	}
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create meta directory: %w", err)
	}

	return &FileSystemClient{
		root:       root,
		objectsDir: objectsDir,
		metaDir:    metaDir,
	}, nil
}

// objectPath maps a key to its on-disk location.
func (c *FileSystemClient) objectPath(key string) string {
	return filepath.Join(c.objectsDir, filepath.FromSlash(key))
}

// Exists reports whether an object file is present for the key.
func (c *FileSystemClient) Exists(_ context.Context, key string) (bool, error) {
	info, err := os.Stat(c.objectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking object %s: %w", key, err)
	}
	return !info.IsDir(), nil
}

// Get returns the content of the object at key.
func (c *FileSystemClient) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(c.objectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", label.ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return data, nil
}

// ContentType returns the recorded content type for a key, or "" if absent.
func (c *FileSystemClient) ContentType(key string) string {
	data, err := os.ReadFile(filepath.Join(c.metaDir, filepath.FromSlash(key)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Put stores data at key using an atomic write (temp file + rename),
// overwriting any existing object.
func (c *FileSystemClient) Put(_ context.Context, key string, data []byte, contentType string) error {
	destPath := c.objectPath(key)
	if err := writeFileAtomic(destPath, data); err != nil {
		return fmt.Errorf("writing object %s: %w", key, err)
	}

	metaPath := filepath.Join(c.metaDir, filepath.FromSlash(key))
	if err := writeFileAtomic(metaPath, []byte(contentType)); err != nil {
		return fmt.Errorf("writing content type for %s: %w", key, err)
	}
	return nil
}

// List walks the objects tree and returns every key starting with prefix,
// sorted.
func (c *FileSystemClient) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(c.objectsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(c.objectsDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing prefix %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// URL returns a file:// URL for local development use.
func (c *FileSystemClient) URL(_ context.Context, key string) (string, error) {
	absPath, err := filepath.Abs(c.objectPath(key))
	if err != nil {
		return "", fmt.Errorf("resolving path for %s: %w", key, err)
	}
	return "file://" + filepath.ToSlash(absPath), nil
}

// writeFileAtomic writes data to destPath via a temp file in the same
// directory followed by a rename.
func writeFileAtomic(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemClient implements label.BlobClient
var _ label.BlobClient = (*FileSystemClient)(nil)
