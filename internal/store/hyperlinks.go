package store

import (
	"context"
	"fmt"
)

// HyperlinkStore defines operations on per-conversation hyperlink records.
type HyperlinkStore interface {
	// CreateStore creates the per-conversation hyperlink file if missing.
	CreateStore(ctx context.Context, conversationID string) error
	// Append appends one hyperlink, creating the store on first use.
	Append(ctx context.Context, hyperlink HistoryHyperlink) error
	// FindAll returns the conversation's hyperlinks, or an empty result
	// when the store was never written.
	FindAll(ctx context.Context, conversationID string) ([]HistoryHyperlink, error)
	// Remove soft-deletes one hyperlink, reporting whether the id was
	// present.
	Remove(ctx context.Context, conversationID, hyperlinkID string) (bool, error)
	// Drop deletes the conversation's whole hyperlink store.
	Drop(ctx context.Context, conversationID string) error
}

// HyperlinkRepo implements HyperlinkStore over a RecordStore.
type HyperlinkRepo struct {
	records RecordStore
}

// NewHyperlinkRepo creates a new HyperlinkRepo.
func NewHyperlinkRepo(records RecordStore) *HyperlinkRepo {
	return &HyperlinkRepo{records: records}
}

// CreateStore creates the per-conversation hyperlink file if missing.
func (r *HyperlinkRepo) CreateStore(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if err := r.records.Create(ctx, DirHistoryHyperlinks, conversationID, HistoryHyperlinkHeaders); err != nil {
		return fmt.Errorf("failed to create hyperlink store for %s: %w", conversationID, err)
	}
	return nil
}

// Append appends one hyperlink, creating the store on first use.
func (r *HyperlinkRepo) Append(ctx context.Context, hyperlink HistoryHyperlink) error {
	if hyperlink.ConversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if err := r.CreateStore(ctx, hyperlink.ConversationID); err != nil {
		return err
	}
	if err := r.records.Append(ctx, DirHistoryHyperlinks, hyperlink.ConversationID, [][]string{hyperlink.row()}); err != nil {
		return fmt.Errorf("failed to append hyperlink %s: %w", hyperlink.ID, err)
	}
	return nil
}

// FindAll returns the conversation's hyperlinks.
func (r *HyperlinkRepo) FindAll(ctx context.Context, conversationID string) ([]HistoryHyperlink, error) {
	rows, err := r.records.FindAll(ctx, DirHistoryHyperlinks, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to read hyperlink store for %s: %w", conversationID, err)
	}
	hyperlinks := make([]HistoryHyperlink, 0, len(rows))
	for _, row := range rows {
		hyperlinks = append(hyperlinks, historyHyperlinkFromRow(row))
	}
	return hyperlinks, nil
}

// Remove soft-deletes one hyperlink.
func (r *HyperlinkRepo) Remove(ctx context.Context, conversationID, hyperlinkID string) (bool, error) {
	removed, err := r.records.SoftDelete(ctx, DirHistoryHyperlinks, conversationID, hyperlinkID)
	if err != nil {
		return false, fmt.Errorf("failed to remove hyperlink %s from %s: %w", hyperlinkID, conversationID, err)
	}
	return removed, nil
}

// Drop deletes the conversation's whole hyperlink store.
func (r *HyperlinkRepo) Drop(ctx context.Context, conversationID string) error {
	if err := r.records.Drop(ctx, DirHistoryHyperlinks, conversationID); err != nil {
		return fmt.Errorf("failed to drop hyperlink store for %s: %w", conversationID, err)
	}
	return nil
}

var _ HyperlinkStore = (*HyperlinkRepo)(nil)
