package diskStore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var ErrCantCreateFile = errors.New("can't create stored file")

// DiskStore keeps uploaded documents in a flat directory, addressed by
// generated stored name only.
type DiskStore struct {
	dir string
}

func New(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, fs.ModePerm); err != nil {
		return nil, fmt.Errorf("can't create upload dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) SaveFile(_ context.Context, storedName string, reader io.Reader, _ int64) error {
	f, err := os.OpenFile(s.path(storedName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCantCreateFile, storedName)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("can't write stored file %s: %w", storedName, err)
	}
	return f.Close()
}

func (s *DiskStore) OpenFile(_ context.Context, storedName string) (io.ReadCloser, error) {
	return os.Open(s.path(storedName))
}

func (s *DiskStore) DeleteFile(_ context.Context, storedName string) error {
	return os.Remove(s.path(storedName))
}

// path joins with Base so a stored name can never escape the directory.
func (s *DiskStore) path(storedName string) string {
	return filepath.Join(s.dir, filepath.Base(storedName))
}
