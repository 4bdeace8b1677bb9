package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	dst := filepath.Join(dir, "dst.mp3")
	if err := os.WriteFile(src, []byte("audio bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(context.Background(), src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "audio bytes" {
		t.Errorf("copied content = %q", data)
	}
}

func TestCopyFile_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mp3")
	dst := filepath.Join(dir, "dst.mp3")
	if err := os.WriteFile(src, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := CopyFile(ctx, src, dst); err == nil {
		t.Fatal("CopyFile with cancelled context succeeded")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("destination created despite cancelled context")
	}
}

func TestHashString(t *testing.T) {
	a := HashString("/library/track.mp3")
	b := HashString("/library/track.mp3")
	c := HashString("/library/other.mp3")

	if a != b {
		t.Error("same input hashed differently")
	}
	if a == c {
		t.Error("different inputs collided")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	for _, r := range a {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("digest %q is not lowercase hex", a)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) {
		t.Error("FileExists = false for existing file")
	}
	if FileExists(filepath.Join(dir, "absent")) {
		t.Error("FileExists = true for missing file")
	}
	if FileExists(dir) {
		t.Error("FileExists = true for directory")
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
	// Idempotent on an existing directory.
	if err := EnsureDir(path); err != nil {
		t.Errorf("EnsureDir second call: %v", err)
	}
}
