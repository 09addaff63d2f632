package store

import (
	"context"
	"fmt"
)

// FileStore defines operations on per-conversation history-file records.
type FileStore interface {
	// AppendAll appends file records for a conversation, creating the
	// per-conversation file on first use.
	AppendAll(ctx context.Context, conversationID string, files []HistoryFile) error
	// FindAll returns the conversation's file records, or an empty result
	// when the store was never written.
	FindAll(ctx context.Context, conversationID string) ([]HistoryFile, error)
	// Remove soft-deletes one file record, reporting whether the id was
	// present.
	Remove(ctx context.Context, conversationID, fileID string) (bool, error)
	// Drop deletes the conversation's whole file store.
	Drop(ctx context.Context, conversationID string) error
}

// FileRepo implements FileStore over a RecordStore.
type FileRepo struct {
	records RecordStore
}

// NewFileRepo creates a new FileRepo.
func NewFileRepo(records RecordStore) *FileRepo {
	return &FileRepo{records: records}
}

// AppendAll appends file records, creating the store on first use.
func (r *FileRepo) AppendAll(ctx context.Context, conversationID string, files []HistoryFile) error {
	if conversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if len(files) == 0 {
		return fmt.Errorf("files are required")
	}
	if err := r.records.Create(ctx, DirHistoryFiles, conversationID, HistoryFileHeaders); err != nil {
		return fmt.Errorf("failed to create file store for %s: %w", conversationID, err)
	}
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		f.ConversationID = conversationID
		rows = append(rows, f.row())
	}
	if err := r.records.Append(ctx, DirHistoryFiles, conversationID, rows); err != nil {
		return fmt.Errorf("failed to append files for %s: %w", conversationID, err)
	}
	return nil
}

// FindAll returns the conversation's file records.
func (r *FileRepo) FindAll(ctx context.Context, conversationID string) ([]HistoryFile, error) {
	rows, err := r.records.FindAll(ctx, DirHistoryFiles, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to read file store for %s: %w", conversationID, err)
	}
	files := make([]HistoryFile, 0, len(rows))
	for _, row := range rows {
		files = append(files, historyFileFromRow(row))
	}
	return files, nil
}

// Remove soft-deletes one file record.
func (r *FileRepo) Remove(ctx context.Context, conversationID, fileID string) (bool, error) {
	removed, err := r.records.SoftDelete(ctx, DirHistoryFiles, conversationID, fileID)
	if err != nil {
		return false, fmt.Errorf("failed to remove file %s from %s: %w", fileID, conversationID, err)
	}
	return removed, nil
}

// Drop deletes the conversation's whole file store.
func (r *FileRepo) Drop(ctx context.Context, conversationID string) error {
	if err := r.records.Drop(ctx, DirHistoryFiles, conversationID); err != nil {
		return fmt.Errorf("failed to drop file store for %s: %w", conversationID, err)
	}
	return nil
}

var _ FileStore = (*FileRepo)(nil)
