package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the RecordStore backend over an embedded SQLite database.
// Each logical record file maps to a (dir, file) pair; rows keep their insert
// order through a position column and their positional fields as a JSON
// array, preserving the same column contract as the CSV backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a SQLite database at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// migrate creates the required tables. It is idempotent.
func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS record_headers (
			dir TEXT NOT NULL,
			file TEXT NOT NULL,
			headers TEXT NOT NULL,
			PRIMARY KEY (dir, file)
		);`,
		`CREATE TABLE IF NOT EXISTS record_rows (
			dir TEXT NOT NULL,
			file TEXT NOT NULL,
			position INTEGER NOT NULL,
			record_id TEXT NOT NULL,
			fields TEXT NOT NULL,
			PRIMARY KEY (dir, file, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_record_rows_id ON record_rows (dir, file, record_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create registers the header for a record file if it does not exist.
func (s *SQLiteStore) Create(ctx context.Context, dir, name string, headers []string) error {
	if len(headers) == 0 {
		return fmt.Errorf("headers are required")
	}
	encoded, err := json.Marshal(headers)
	if err != nil {
		return fmt.Errorf("failed to encode headers: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO record_headers (dir, file, headers) VALUES (?, ?, ?)
		 ON CONFLICT (dir, file) DO NOTHING`,
		dir, name, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to create record file %s/%s: %w", dir, name, err)
	}
	return nil
}

// Append appends data rows to an existing record file.
func (s *SQLiteStore) Append(ctx context.Context, dir, name string, rows [][]string) error {
	exists, err := s.Exists(ctx, dir, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("append %s/%s: %w", dir, name, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) + 1 FROM record_rows WHERE dir = ? AND file = ?",
		dir, name,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to query next position: %w", err)
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		encoded, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO record_rows (dir, file, position, record_id, fields) VALUES (?, ?, ?, ?, ?)",
			dir, name, next+i, row[0], string(encoded),
		)
		if err != nil {
			return fmt.Errorf("failed to append row to %s/%s: %w", dir, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append: %w", err)
	}
	return nil
}

// FindAll returns all data rows in insert order; a missing file yields an
// empty result.
func (s *SQLiteStore) FindAll(ctx context.Context, dir, name string) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT fields FROM record_rows WHERE dir = ? AND file = ? AND record_id != '' ORDER BY position",
		dir, name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows for %s/%s: %w", dir, name, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := [][]string{}
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var fields []string
		if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode row: %w", err)
		}
		result = append(result, fields)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return result, nil
}

// SoftDelete removes the row whose identifier column equals id.
func (s *SQLiteStore) SoftDelete(ctx context.Context, dir, name, id string) (bool, error) {
	exists, err := s.Exists(ctx, dir, name)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("soft delete %s/%s: %w", dir, name, ErrNotFound)
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM record_rows WHERE dir = ? AND file = ? AND record_id = ?",
		dir, name, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete row from %s/%s: %w", dir, name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return affected > 0, nil
}

// UpdateByID merges patch into the matching row and always writes it back.
func (s *SQLiteStore) UpdateByID(ctx context.Context, dir, name, id string, patch map[int]string) (bool, error) {
	exists, err := s.Exists(ctx, dir, name)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("update %s/%s: %w", dir, name, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var position int
	var encoded string
	err = tx.QueryRowContext(ctx,
		"SELECT position, fields FROM record_rows WHERE dir = ? AND file = ? AND record_id = ?",
		dir, name, id,
	).Scan(&position, &encoded)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query row %s in %s/%s: %w", id, dir, name, err)
	}

	var fields []string
	if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
		return false, fmt.Errorf("failed to decode row: %w", err)
	}
	for col, value := range patch {
		if col >= 0 && col < len(fields) {
			fields[col] = value
		}
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return false, fmt.Errorf("failed to encode row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE record_rows SET record_id = ?, fields = ? WHERE dir = ? AND file = ? AND position = ?",
		fields[0], string(merged), dir, name, position,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update row %s in %s/%s: %w", id, dir, name, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit update: %w", err)
	}
	return true, nil
}

// Exists reports whether the record file was created.
func (s *SQLiteStore) Exists(ctx context.Context, dir, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM record_headers WHERE dir = ? AND file = ?",
		dir, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check record file %s/%s: %w", dir, name, err)
	}
	return count > 0, nil
}

// Drop removes the record file header and all of its rows.
func (s *SQLiteStore) Drop(ctx context.Context, dir, name string) error {
	exists, err := s.Exists(ctx, dir, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("drop %s/%s: %w", dir, name, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM record_rows WHERE dir = ? AND file = ?", dir, name); err != nil {
		return fmt.Errorf("failed to drop rows for %s/%s: %w", dir, name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM record_headers WHERE dir = ? AND file = ?", dir, name); err != nil {
		return fmt.Errorf("failed to drop header for %s/%s: %w", dir, name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit drop: %w", err)
	}
	return nil
}

var _ RecordStore = (*SQLiteStore)(nil)
