package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// LocalStore writes uploads under a configured root directory, served by the
// web layer under BaseURL.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root string, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{root: root, baseURL: baseURL}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, _ string, data []byte) (string, error) {
	dst := filepath.Join(s.root, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload subdir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join(s.baseURL, name), nil
}
