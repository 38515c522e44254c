package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raca159/simple-label-maker/internal/label"
)

func TestNewFileSystemClient_CreatesDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "store")

	_, err := NewFileSystemClient(root)
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	for _, dir := range []string{"objects", "meta"} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestFileSystemClient_PutGet(t *testing.T) {
	ctx := context.Background()
	client, err := NewFileSystemClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	key := "annotations/alice/s1.json"
	if err := client.Put(ctx, key, []byte(`{"id":"a1"}`), "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	found, err := client.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !found {
		t.Error("Exists() = false after Put")
	}

	data, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != `{"id":"a1"}` {
		t.Errorf("Get() = %q", data)
	}
	if ct := client.ContentType(key); ct != "application/json" {
		t.Errorf("ContentType() = %q", ct)
	}
}

func TestFileSystemClient_GetMissingKey(t *testing.T) {
	client, err := NewFileSystemClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	_, err = client.Get(context.Background(), "missing.json")
	if !errors.Is(err, label.ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}

	found, err := client.Exists(context.Background(), "missing.json")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if found {
		t.Error("Exists() = true for missing key")
	}
}

func TestFileSystemClient_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	client, err := NewFileSystemClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	if err := client.Put(ctx, "k.json", []byte("first"), "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := client.Put(ctx, "k.json", []byte("second"), "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	data, err := client.Get(ctx, "k.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Get() = %q, want second", data)
	}
}

func TestFileSystemClient_PutLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	client, err := NewFileSystemClient(root)
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	if err := client.Put(context.Background(), "annotations/alice/s1.json", []byte("x"), ""); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.Base(path), ".tmp-") {
			t.Errorf("temp file left behind: %s", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
}

func TestFileSystemClient_List(t *testing.T) {
	ctx := context.Background()
	client, err := NewFileSystemClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	for _, key := range []string{
		"annotations/bob/s2.json",
		"annotations/alice/s1.json",
		"annotations/s1_carol.json",
		"data/s1.png",
	} {
		if err := client.Put(ctx, key, []byte("x"), ""); err != nil {
			t.Fatalf("Put(%s) error = %v", key, err)
		}
	}

	keys, err := client.List(ctx, "annotations/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{
		"annotations/alice/s1.json",
		"annotations/bob/s2.json",
		"annotations/s1_carol.json",
	}
	if len(keys) != len(want) {
		t.Fatalf("List() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestFileSystemClient_ListEmptyStore(t *testing.T) {
	client, err := NewFileSystemClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	keys, err := client.List(context.Background(), "annotations/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() = %v, want empty", keys)
	}
}

func TestFileSystemClient_URL(t *testing.T) {
	client, err := NewFileSystemClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemClient() error = %v", err)
	}

	url, err := client.URL(context.Background(), "data/s1.png")
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	if !strings.HasPrefix(url, "file://") || !strings.HasSuffix(url, "objects/data/s1.png") {
		t.Errorf("URL() = %q", url)
	}
}
