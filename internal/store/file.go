package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend keeps each document as <dir>/<name>.json. Writes overwrite the
// file in place.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a filesystem backend rooted at dir ("data" when empty).
func NewFileBackend(dir string) *FileBackend {
	if strings.TrimSpace(dir) == "" {
		dir = "data"
	}
	return &FileBackend{dir: dir}
}

// Dir returns the directory documents live in.
func (b *FileBackend) Dir() string { return b.dir }

// Path returns the file path backing the named document.
func (b *FileBackend) Path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(b.dir, name+".json"), nil
}

func (b *FileBackend) Prepare(ctx context.Context) error {
	return os.MkdirAll(b.dir, 0o755)
}

func (b *FileBackend) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := b.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	return data, nil
}

func (b *FileBackend) Write(ctx context.Context, name string, data []byte) error {
	path, err := b.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("store: create dir %s: %w", b.dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

func (b *FileBackend) Exists(ctx context.Context, name string) (bool, error) {
	path, err := b.Path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: stat %s: %w", path, err)
	}
	return true, nil
}

// checkName keeps document names from escaping the backend's root.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("store: empty document name")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("store: invalid document name %q", name)
	}
	return nil
}

var _ Backend = (*FileBackend)(nil)
