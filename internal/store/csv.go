package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"docuchat/internal/recordfile"
)

// CSVStore is the RecordStore backend over per-entity CSV files.
//
// Every mutation is a whole-file read-modify-write, so concurrent writers to
// the same file would race; one mutex per file path serializes them within
// this process. Cross-process writers still race (last writer wins).
type CSVStore struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCSVStore creates a CSVStore rooted at the given storage directory.
func NewCSVStore(root string) *CSVStore {
	return &CSVStore{
		root:  root,
		locks: make(map[string]*sync.Mutex),
	}
}

// lock returns the mutex guarding one record file, creating it on first use.
func (s *CSVStore) lock(dir, name string) *sync.Mutex {
	key := filepath.Join(dir, name)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *CSVStore) path(dir string) string {
	return filepath.Join(s.root, dir)
}

// Create creates the record file with the given header if it does not exist.
func (s *CSVStore) Create(ctx context.Context, dir, name string, headers []string) error {
	l := s.lock(dir, name)
	l.Lock()
	defer l.Unlock()

	if recordfile.Exists(s.path(dir), name) {
		return nil
	}
	if err := recordfile.CreateWithHeader(headers, s.path(dir), name); err != nil {
		// A concurrent Create between the existence check and the write is
		// still idempotent.
		if errors.Is(err, recordfile.ErrAlreadyExists) {
			return nil
		}
		return err
	}
	return nil
}

// Append appends data rows to an existing record file.
func (s *CSVStore) Append(ctx context.Context, dir, name string, rows [][]string) error {
	l := s.lock(dir, name)
	l.Lock()
	defer l.Unlock()

	if err := recordfile.AppendRows(rows, s.path(dir), name); err != nil {
		if errors.Is(err, recordfile.ErrNotFound) {
			return fmt.Errorf("append %s/%s: %w", dir, name, ErrNotFound)
		}
		return err
	}
	return nil
}

// FindAll returns all data rows; a missing file yields an empty result.
func (s *CSVStore) FindAll(ctx context.Context, dir, name string) ([][]string, error) {
	l := s.lock(dir, name)
	l.Lock()
	defer l.Unlock()

	rows, err := recordfile.ReadAll(s.path(dir), name)
	if err != nil {
		if errors.Is(err, recordfile.ErrNotFound) {
			return [][]string{}, nil
		}
		return nil, err
	}
	if len(rows) <= 1 {
		return [][]string{}, nil
	}

	// Blank rows can survive legacy append styles; they carry no identifier
	// and are filtered out rather than surfaced.
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		data = append(data, row)
	}
	return data, nil
}

// SoftDelete removes the row whose identifier column equals id.
func (s *CSVStore) SoftDelete(ctx context.Context, dir, name, id string) (bool, error) {
	l := s.lock(dir, name)
	l.Lock()
	defer l.Unlock()

	removed := false
	err := recordfile.RewriteFiltered(s.path(dir), name, func(row []string) ([]string, bool) {
		if len(row) > 0 && row[0] == id {
			removed = true
			return nil, false
		}
		return row, true
	})
	if err != nil {
		if errors.Is(err, recordfile.ErrNotFound) {
			return false, fmt.Errorf("soft delete %s/%s: %w", dir, name, ErrNotFound)
		}
		return false, err
	}
	return removed, nil
}

// UpdateByID merges patch into the matching row and always writes it back.
func (s *CSVStore) UpdateByID(ctx context.Context, dir, name, id string, patch map[int]string) (bool, error) {
	l := s.lock(dir, name)
	l.Lock()
	defer l.Unlock()

	updated := false
	err := recordfile.RewriteFiltered(s.path(dir), name, func(row []string) ([]string, bool) {
		if len(row) == 0 || row[0] != id {
			return row, true
		}
		updated = true
		merged := make([]string, len(row))
		copy(merged, row)
		for col, value := range patch {
			if col >= 0 && col < len(merged) {
				merged[col] = value
			}
		}
		return merged, true
	})
	if err != nil {
		if errors.Is(err, recordfile.ErrNotFound) {
			return false, fmt.Errorf("update %s/%s: %w", dir, name, ErrNotFound)
		}
		return false, err
	}
	return updated, nil
}

// Exists reports whether the record file exists.
func (s *CSVStore) Exists(ctx context.Context, dir, name string) (bool, error) {
	return recordfile.Exists(s.path(dir), name), nil
}

// Drop removes the whole record file.
func (s *CSVStore) Drop(ctx context.Context, dir, name string) error {
	l := s.lock(dir, name)
	l.Lock()
	defer l.Unlock()

	if err := recordfile.Remove(s.path(dir), name); err != nil {
		if errors.Is(err, recordfile.ErrNotFound) {
			return fmt.Errorf("drop %s/%s: %w", dir, name, ErrNotFound)
		}
		return err
	}
	return nil
}

var _ RecordStore = (*CSVStore)(nil)
