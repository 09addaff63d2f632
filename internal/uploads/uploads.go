// Package uploads stores the raw uploaded documents on disk. Records about
// them live in the CSV stores; this package only owns the bytes.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no binary exists for an id.
var ErrNotFound = errors.New("upload not found")

// Store keeps one file per document id under a single directory.
type Store struct {
	dir string
}

// NewStore creates a new Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns where the document's bytes live. Every upload is stored with a
// .pdf extension regardless of its original name.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".pdf")
}

// Save writes the document's bytes, creating the directory on first use.
func (s *Store) Save(id string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	f, err := os.Create(s.Path(id))
	if err != nil {
		return 0, fmt.Errorf("failed to create upload %s: %w", id, err)
	}
	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("failed to write upload %s: %w", id, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close upload %s: %w", id, err)
	}
	return n, nil
}

// Open opens the document's bytes for reading.
func (s *Store) Open(id string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("upload %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", id, err)
	}
	return f, nil
}

// Remove deletes the document's bytes. Removing a missing id is not an error;
// record rows can outlive their binaries.
func (s *Store) Remove(id string) error {
	err := os.Remove(s.Path(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload %s: %w", id, err)
	}
	return nil
}

// RemoveAll deletes the binaries for every given id, returning the first
// error after attempting all of them.
func (s *Store) RemoveAll(ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := s.Remove(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
