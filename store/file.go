package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
)

// File keeps the blob in a single JSON file. Writes replace the file
// atomically so a reader never sees a half-written blob.
type File struct {
	path string
}

// NewFile creates a file store at path. The file and its directory are
// created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("store: create dir for %s: %w", f.path, err)
	}
	if err := atomicwriter.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("store: write %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Close() error { return nil }
