package backend

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File stores each collection as <dir>/<name>.json. Writes go to a temp file
// in the same directory and are renamed into place, so a reader never sees a
// half-written collection.
type File struct {
	dir string
}

// NewFile ensures dir exists and returns a File backend rooted there.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %q: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory the backend writes to.
func (f *File) Dir() string { return f.dir }

func (f *File) path(name string) string { return filepath.Join(f.dir, name+".json") }

func (f *File) Read(_ context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

func (f *File) Write(_ context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, f.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Ping checks the directory is still there and writable.
func (f *File) Ping(context.Context) error {
	tmp, err := os.CreateTemp(f.dir, ".ping-*")
	if err != nil {
		return err
	}
	tmp.Close()
	return os.Remove(tmp.Name())
}

func (f *File) Close() error { return nil }

// ResolveDataDir returns primary when it can be created, otherwise fallback.
func ResolveDataDir(primary, fallback string) string {
	if primary != "" {
		if err := os.MkdirAll(primary, 0o755); err == nil {
			return primary
		}
	}
	return fallback
}
