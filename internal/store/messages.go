package store

import (
	"context"
	"fmt"
)

// MessageStore defines operations on per-conversation chat history.
type MessageStore interface {
	// CreateHistory creates the conversation's message file if missing.
	CreateHistory(ctx context.Context, conversationID string) error
	// Append appends one message; the history must exist.
	Append(ctx context.Context, message Message) error
	// FindAll returns the conversation's messages in append order, or an
	// empty result when the history was never written.
	FindAll(ctx context.Context, conversationID string) ([]Message, error)
	// HasHistory reports whether the conversation's message file exists.
	HasHistory(ctx context.Context, conversationID string) (bool, error)
	// DropHistory deletes the conversation's message file wholesale.
	DropHistory(ctx context.Context, conversationID string) error
}

// MessageRepo implements MessageStore over a RecordStore.
type MessageRepo struct {
	records RecordStore
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(records RecordStore) *MessageRepo {
	return &MessageRepo{records: records}
}

// CreateHistory creates the conversation's message file if missing.
func (r *MessageRepo) CreateHistory(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if err := r.records.Create(ctx, DirChatHistory, conversationID, MessageHeaders); err != nil {
		return fmt.Errorf("failed to create history for %s: %w", conversationID, err)
	}
	return nil
}

// Append appends one message to its conversation's history.
func (r *MessageRepo) Append(ctx context.Context, message Message) error {
	if message.ConversationID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if err := r.records.Append(ctx, DirChatHistory, message.ConversationID, [][]string{message.row()}); err != nil {
		return fmt.Errorf("failed to append message %s: %w", message.ID, err)
	}
	return nil
}

// FindAll returns the conversation's messages in append order.
func (r *MessageRepo) FindAll(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := r.records.FindAll(ctx, DirChatHistory, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", conversationID, err)
	}
	messages := make([]Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, messageFromRow(row))
	}
	return messages, nil
}

// HasHistory reports whether the conversation's message file exists.
func (r *MessageRepo) HasHistory(ctx context.Context, conversationID string) (bool, error) {
	return r.records.Exists(ctx, DirChatHistory, conversationID)
}

// DropHistory deletes the conversation's message file.
func (r *MessageRepo) DropHistory(ctx context.Context, conversationID string) error {
	if err := r.records.Drop(ctx, DirChatHistory, conversationID); err != nil {
		return fmt.Errorf("failed to drop history for %s: %w", conversationID, err)
	}
	return nil
}

var _ MessageStore = (*MessageRepo)(nil)
