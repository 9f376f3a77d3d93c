// AngelaMos | 2026
// store.go

package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrInvalidName = errors.New("invalid asset name")

// Store is a flat directory of files keyed by name.
type Store interface {
	EnsureDir(ctx context.Context) error
	Exists(ctx context.Context, name string) (bool, error)
	Write(ctx context.Context, name string, r io.Reader) (int64, error)
	Open(ctx context.Context, name string) (File, error)
	Delete(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}

type File interface {
	io.ReadSeekCloser
	ModTime() time.Time
}

type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: filepath.Clean(dir)}
}

func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) EnsureDir(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	return nil
}

func (s *DirStore) Exists(_ context.Context, name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat asset: %w", err)
	}

	return info.Mode().IsRegular(), nil
}

// Write streams r into a temp file and renames it into place, so readers
// never observe a partial image.
func (s *DirStore) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}

	if err := s.EnsureDir(ctx); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp asset: %w", err)
	}
	tmpName := tmp.Name()

	n, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("write asset: %w", copyErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("rename asset: %w", err)
	}

	return n, nil
}

func (s *DirStore) Open(_ context.Context, name string) (File, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat asset: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, fmt.Errorf("open asset: %w", fs.ErrNotExist)
	}

	return &osFile{File: f, modTime: info.ModTime()}, nil
}

// Delete returns an error wrapping fs.ErrNotExist when the file is absent.
func (s *DirStore) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

func (s *DirStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat asset dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("asset dir %q is not a directory", s.dir)
	}
	return nil
}

func (s *DirStore) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// ValidName reports whether name is a single path element that cannot
// escape the asset directory.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

type osFile struct {
	*os.File
	modTime time.Time
}

func (f *osFile) ModTime() time.Time {
	return f.modTime
}
