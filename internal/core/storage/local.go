package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Local stores images under a root directory.
type Local struct {
	root      string
	publicURL string
	mu        sync.RWMutex
}

func NewLocal(root, publicURL string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Local{root: root, publicURL: publicURL}, nil
}

// Root is the directory served under the media route.
func (s *Local) Root() string { return s.root }

func (s *Local) Path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	if len(data) == 0 {
		return fmt.Errorf("storage: image data cannot be empty")
	}
	p, err := s.Path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: create dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

func (s *Local) Get(key string) ([]byte, error) {
	p, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return os.ReadFile(p)
}

func (s *Local) Delete(_ context.Context, key string) error {
	p, err := s.Path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (s *Local) URL(key string) string { return joinURL(s.publicURL, key) }
