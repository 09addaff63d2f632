// Package recordfile provides byte-level CSV access for one logical record file.
//
// Every record file is a plain CSV whose first row is the header; data rows
// start at index 1 and fields are positional. Mutations are whole-file
// rewrites: there is no in-place patching primitive.
package recordfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNotFound is returned when the record file does not exist.
	ErrNotFound = errors.New("record file not found")
	// ErrAlreadyExists is returned when creating a record file that exists.
	ErrAlreadyExists = errors.New("record file already exists")
)

// Path returns the on-disk path for a record file.
func Path(dir, name string) string {
	return filepath.Join(dir, name+".csv")
}

// Exists reports whether the record file exists.
func Exists(dir, name string) bool {
	_, err := os.Stat(Path(dir, name))
	return err == nil
}

// CreateWithHeader creates a new record file containing only the header row.
// The parent directory is created if missing. It fails with ErrAlreadyExists
// if the file is present; callers that want idempotence check Exists first.
func CreateWithHeader(headers []string, dir, name string) error {
	if len(headers) == 0 {
		return fmt.Errorf("headers are required")
	}
	if name == "" {
		return fmt.Errorf("file name is required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := Path(dir, name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush header to %s: %w", path, err)
	}

	return nil
}

// ReadAll reads every row of the record file in file order, header included
// as row 0. It fails with ErrNotFound if the file is absent.
func ReadAll(dir, name string) ([][]string, error) {
	path := Path(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	// Rows are positional; entity schemas fix the field count but a trailing
	// legacy column must not fail the whole read.
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// AppendRows appends the given rows after the existing content. It fails with
// ErrNotFound if the file does not exist: append never creates.
func AppendRows(rows [][]string, dir, name string) error {
	if len(rows) == 0 {
		return fmt.Errorf("rows are required")
	}
	if name == "" {
		return fmt.Errorf("file name is required")
	}

	path := Path(dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to append to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return nil
}

// RewriteFiltered reads all rows, applies fn to each, and writes the survivors
// back, replacing the file wholesale. fn returns the (possibly transformed)
// row and whether to keep it; it is applied to data rows only, the header is
// always kept. This is the primitive underlying both update and delete.
// It fails with ErrNotFound if the file is absent.
func RewriteFiltered(dir, name string, fn func(row []string) ([]string, bool)) error {
	rows, err := ReadAll(dir, name)
	if err != nil {
		return err
	}

	updated := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			updated = append(updated, row)
			continue
		}
		if next, keep := fn(row); keep {
			updated = append(updated, next)
		}
	}

	path := Path(dir, name)
	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	for _, row := range updated {
		if err := w.Write(row); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
			return fmt.Errorf("failed to rewrite %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Remove deletes the record file. It fails with ErrNotFound if the file is
// absent.
func Remove(dir, name string) error {
	path := Path(dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
