package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		ListenAddr:  ":9090",
		LogDir:      "/home/user/.local/share/slm/log",
		ProjectPath: "/home/user/projects/cats/project.yaml",
		Storage: StorageConfig{
			Type:             "s3",
			S3Bucket:         "labeling-data",
			S3Prefix:         "cats",
			S3Region:         "eu-west-1",
			S3Endpoint:       "http://localhost:9000",
			URLExpirySeconds: 600,
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.ListenAddr != original.ListenAddr {
		t.Errorf("ListenAddr = %q, want %q", got.ListenAddr, original.ListenAddr)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.ProjectPath != original.ProjectPath {
		t.Errorf("ProjectPath = %q, want %q", got.ProjectPath, original.ProjectPath)
	}
	if got.Storage.Type != "s3" {
		t.Errorf("Storage.Type = %q, want %q", got.Storage.Type, "s3")
	}
	if got.Storage.S3Bucket != "labeling-data" {
		t.Errorf("Storage.S3Bucket = %q, want %q", got.Storage.S3Bucket, "labeling-data")
	}
	if got.Storage.S3Endpoint != original.Storage.S3Endpoint {
		t.Errorf("Storage.S3Endpoint = %q, want %q", got.Storage.S3Endpoint, original.Storage.S3Endpoint)
	}
	if got.Storage.URLExpirySeconds != 600 {
		t.Errorf("Storage.URLExpirySeconds = %d, want %d", got.Storage.URLExpirySeconds, 600)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/slm")

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":8080")
	}
	if cfg.LogDir != "/data/slm/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/slm/log")
	}
	if cfg.ProjectPath != "/data/slm/project.yaml" {
		t.Errorf("ProjectPath = %q, want %q", cfg.ProjectPath, "/data/slm/project.yaml")
	}
	if cfg.Storage.Type != "filesystem" {
		t.Errorf("Storage.Type = %q, want %q", cfg.Storage.Type, "filesystem")
	}
	if cfg.Storage.FSRoot != "/data/slm/storage" {
		t.Errorf("Storage.FSRoot = %q, want %q", cfg.Storage.FSRoot, "/data/slm/storage")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "slm.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "slm.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "slm.toml")
		cfg := NewConfig(dir)
		cfg.Storage = StorageConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Storage.Type != "memory" {
			t.Errorf("Storage.Type = %q, want %q", got.Storage.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/slm.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
