package store

import (
	"context"
	"fmt"
)

// Shared holding files for records not yet attached to a conversation.
const (
	tempDocsFile       = "temp_docs"
	tempHyperlinksFile = "temp_hyperlinks"
)

// TemporaryStore defines operations on the pre-conversation holding area.
type TemporaryStore interface {
	// AppendDoc appends one temporary doc, creating the holding file on
	// first use.
	AppendDoc(ctx context.Context, doc TemporaryDoc) error
	// FindAllDocs returns all temporary docs, or an empty result when the
	// holding file was never written.
	FindAllDocs(ctx context.Context) ([]TemporaryDoc, error)
	// RemoveDoc soft-deletes one temporary doc.
	RemoveDoc(ctx context.Context, docID string) (bool, error)
	// AppendHyperlink appends one temporary hyperlink.
	AppendHyperlink(ctx context.Context, hyperlink TemporaryHyperlink) error
	// FindAllHyperlinks returns all temporary hyperlinks.
	FindAllHyperlinks(ctx context.Context) ([]TemporaryHyperlink, error)
	// RemoveHyperlink soft-deletes one temporary hyperlink.
	RemoveHyperlink(ctx context.Context, hyperlinkID string) (bool, error)
}

// TemporaryRepo implements TemporaryStore over a RecordStore.
type TemporaryRepo struct {
	records RecordStore
}

// NewTemporaryRepo creates a new TemporaryRepo.
func NewTemporaryRepo(records RecordStore) *TemporaryRepo {
	return &TemporaryRepo{records: records}
}

// AppendDoc appends one temporary doc, creating the holding file on first use.
func (r *TemporaryRepo) AppendDoc(ctx context.Context, doc TemporaryDoc) error {
	if doc.ID == "" {
		return fmt.Errorf("doc id is required")
	}
	if err := r.records.Create(ctx, DirTemporary, tempDocsFile, TemporaryDocHeaders); err != nil {
		return fmt.Errorf("failed to create temp docs store: %w", err)
	}
	if err := r.records.Append(ctx, DirTemporary, tempDocsFile, [][]string{doc.row()}); err != nil {
		return fmt.Errorf("failed to append temp doc %s: %w", doc.ID, err)
	}
	return nil
}

// FindAllDocs returns all temporary docs.
func (r *TemporaryRepo) FindAllDocs(ctx context.Context) ([]TemporaryDoc, error) {
	rows, err := r.records.FindAll(ctx, DirTemporary, tempDocsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp docs: %w", err)
	}
	docs := make([]TemporaryDoc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, temporaryDocFromRow(row))
	}
	return docs, nil
}

// RemoveDoc soft-deletes one temporary doc.
func (r *TemporaryRepo) RemoveDoc(ctx context.Context, docID string) (bool, error) {
	removed, err := r.records.SoftDelete(ctx, DirTemporary, tempDocsFile, docID)
	if err != nil {
		return false, fmt.Errorf("failed to remove temp doc %s: %w", docID, err)
	}
	return removed, nil
}

// AppendHyperlink appends one temporary hyperlink.
func (r *TemporaryRepo) AppendHyperlink(ctx context.Context, hyperlink TemporaryHyperlink) error {
	if hyperlink.ID == "" {
		return fmt.Errorf("hyperlink id is required")
	}
	if err := r.records.Create(ctx, DirTemporary, tempHyperlinksFile, TemporaryHyperlinkHeaders); err != nil {
		return fmt.Errorf("failed to create temp hyperlinks store: %w", err)
	}
	if err := r.records.Append(ctx, DirTemporary, tempHyperlinksFile, [][]string{hyperlink.row()}); err != nil {
		return fmt.Errorf("failed to append temp hyperlink %s: %w", hyperlink.ID, err)
	}
	return nil
}

// FindAllHyperlinks returns all temporary hyperlinks.
func (r *TemporaryRepo) FindAllHyperlinks(ctx context.Context) ([]TemporaryHyperlink, error) {
	rows, err := r.records.FindAll(ctx, DirTemporary, tempHyperlinksFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp hyperlinks: %w", err)
	}
	hyperlinks := make([]TemporaryHyperlink, 0, len(rows))
	for _, row := range rows {
		hyperlinks = append(hyperlinks, temporaryHyperlinkFromRow(row))
	}
	return hyperlinks, nil
}

// RemoveHyperlink soft-deletes one temporary hyperlink.
func (r *TemporaryRepo) RemoveHyperlink(ctx context.Context, hyperlinkID string) (bool, error) {
	removed, err := r.records.SoftDelete(ctx, DirTemporary, tempHyperlinksFile, hyperlinkID)
	if err != nil {
		return false, fmt.Errorf("failed to remove temp hyperlink %s: %w", hyperlinkID, err)
	}
	return removed, nil
}

var _ TemporaryStore = (*TemporaryRepo)(nil)
