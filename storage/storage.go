// Package storage provides the durable byte store backing the member ledger.
package storage

import (
	"io/ioutil"
	"os"
	"path/filepath"

	extErrors "github.com/pkg/errors"
)

// Store is the narrow contract the ledger persists through. Implementations
// must make WriteAll atomic: a crash mid-write may lose the new state but
// never leaves a torn file behind.
type Store interface {
	ReadAll() ([]byte, error)
	WriteAll(data []byte) error
}

// FileStore keeps the entire state in a single file on local disk
type FileStore struct {
	path string
}

// NewFileStore returns a Store backed by the file at path. The parent
// directory is created if missing; the file itself is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if len(path) == 0 {
		return nil, extErrors.New("empty path is invalid")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, extErrors.Wrap(err, "Cannot create parent directory for store")
	}
	return &FileStore{
		path: path,
	}, nil
}

// ReadAll returns the full current contents. A missing file is reported as
// os.ErrNotExist via the wrapped error so callers can start from empty state.
func (f *FileStore) ReadAll() ([]byte, error) {
	data, err := ioutil.ReadFile(f.path)
	if err != nil {
		return nil, extErrors.Wrap(err, "Cannot read store file")
	}
	return data, nil
}

// WriteAll replaces the full contents via a temp file and rename so readers
// never observe a partial write.
func (f *FileStore) WriteAll(data []byte) error {
	tmp, err := ioutil.TempFile(filepath.Dir(f.path), ".ledger-*")
	if err != nil {
		return extErrors.Wrap(err, "Cannot create temp file for store")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return extErrors.Wrap(err, "Cannot write to temp file")
	}
	if err := tmp.Close(); err != nil {
		return extErrors.Wrap(err, "Cannot flush temp file")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return extErrors.Wrap(err, "Cannot replace store file")
	}
	return nil
}
