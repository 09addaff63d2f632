package store

import (
	"context"
	"fmt"
)

// ledgerFile is the single shared conversation ledger.
const ledgerFile = "db_conversations"

// ConversationStore defines operations on the conversation ledger.
type ConversationStore interface {
	// Create registers a conversation in the ledger, creating the ledger
	// file on first use.
	Create(ctx context.Context, conversation Conversation) error
	// FindAll returns every conversation in ledger order.
	FindAll(ctx context.Context) ([]Conversation, error)
	// Rename updates the conversation name, reporting whether the id was
	// present.
	Rename(ctx context.Context, id, name string) (bool, error)
	// Remove deletes the ledger row, reporting whether the id was present.
	Remove(ctx context.Context, id string) (bool, error)
}

// ConversationRepo implements ConversationStore over a RecordStore.
type ConversationRepo struct {
	records RecordStore
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(records RecordStore) *ConversationRepo {
	return &ConversationRepo{records: records}
}

// Create registers a conversation in the ledger.
func (r *ConversationRepo) Create(ctx context.Context, conversation Conversation) error {
	if conversation.ID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if conversation.ConversationName == "" {
		conversation.ConversationName = DefaultConversationName
	}
	if err := r.records.Create(ctx, DirConversations, ledgerFile, ConversationHeaders); err != nil {
		return fmt.Errorf("failed to create conversation ledger: %w", err)
	}
	if err := r.records.Append(ctx, DirConversations, ledgerFile, [][]string{conversation.row()}); err != nil {
		return fmt.Errorf("failed to append conversation %s: %w", conversation.ID, err)
	}
	return nil
}

// FindAll returns every conversation in ledger order.
func (r *ConversationRepo) FindAll(ctx context.Context) ([]Conversation, error) {
	rows, err := r.records.FindAll(ctx, DirConversations, ledgerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation ledger: %w", err)
	}
	conversations := make([]Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, conversationFromRow(row))
	}
	return conversations, nil
}

// Rename updates the conversation name in the ledger.
func (r *ConversationRepo) Rename(ctx context.Context, id, name string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("conversation name is required")
	}
	updated, err := r.records.UpdateByID(ctx, DirConversations, ledgerFile, id, map[int]string{1: name})
	if err != nil {
		return false, fmt.Errorf("failed to rename conversation %s: %w", id, err)
	}
	return updated, nil
}

// Remove deletes the ledger row for a conversation.
func (r *ConversationRepo) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := r.records.SoftDelete(ctx, DirConversations, ledgerFile, id)
	if err != nil {
		return false, fmt.Errorf("failed to remove conversation %s: %w", id, err)
	}
	return removed, nil
}

var _ ConversationStore = (*ConversationRepo)(nil)
