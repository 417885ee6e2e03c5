package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoreSave(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	data := []byte{0x89, 'P', 'N', 'G'}
	url, err := store.Save(context.Background(), "2026/04/hero.png", "image/png", data)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "/uploads/2026/04/hero.png" {
		t.Fatalf("url = %q", url)
	}

	written, err := os.ReadFile(filepath.Join(root, "2026", "04", "hero.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(written, data) {
		t.Fatal("stored bytes differ")
	}
}

func TestNewLocalStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads", "anidado")
	if _, err := NewLocalStore(root, "/uploads"); err != nil {
		t.Fatalf("new store: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}
