// Package store maps domain entities onto record files with fixed directory
// and positional-column conventions. A RecordStore backend owns the raw
// row-level operations; the typed entity stores own schemas and paths.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a record file or row is not found.
	ErrNotFound = errors.New("record not found")
)

// RecordStore defines row-level operations over named record files.
// Rows are positional: field order must exactly match the order used at
// header-creation time for the owning entity.
type RecordStore interface {
	// Create creates the record file with the given header if it does not
	// exist. It is idempotent: call sites create defensively before appends.
	Create(ctx context.Context, dir, name string, headers []string) error
	// Append appends data rows. It fails with ErrNotFound if Create was
	// never called for this name.
	Append(ctx context.Context, dir, name string, rows [][]string) error
	// FindAll returns all data rows in file order, header excluded. A
	// missing file yields an empty result, not an error, so first-use call
	// sites treat "never written" and "empty" identically.
	FindAll(ctx context.Context, dir, name string) ([][]string, error)
	// SoftDelete removes the row whose identifier column (index 0) equals
	// id. It returns false when no such row was present; "already gone" is
	// a valid outcome, not an error.
	SoftDelete(ctx context.Context, dir, name, id string) (bool, error)
	// UpdateByID merges patch (column index to new value) into the matching
	// row and always writes the merged row back. It returns false when the
	// id was not present.
	UpdateByID(ctx context.Context, dir, name, id string, patch map[int]string) (bool, error)
	// Exists reports whether the record file exists.
	Exists(ctx context.Context, dir, name string) (bool, error)
	// Drop removes the whole record file. It fails with ErrNotFound if the
	// file is absent.
	Drop(ctx context.Context, dir, name string) error
}

// Directory names are part of the on-disk contract and must not collide.
const (
	DirChatHistory       = "chat_history"
	DirConversations     = "conversations"
	DirHistoryFiles      = "history_files"
	DirHistoryHyperlinks = "history_hyperlinks"
	DirTemporary         = "temporary"
	DirJobs              = "jobs"
)
