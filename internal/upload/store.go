package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store persists uploaded file bodies under a flat name.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) error
}

// DiskStore writes uploads into a local directory, which the server also serves statically.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir}, nil
}

func (s *DiskStore) Save(_ context.Context, name string, r io.Reader) error {
	path := filepath.Join(s.Dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
