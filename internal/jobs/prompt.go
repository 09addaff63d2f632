package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docuchat/internal/processor"
	"docuchat/internal/store"
)

// completePrompt asks the processor for the bot reply, appends it to the
// conversation's history, and renames the conversation from its opening
// message. The rename is best effort; a failed rename never fails the job.
func completePrompt(ctx context.Context, client *processor.Client, messages store.MessageStore, conversations store.ConversationStore, logger *slog.Logger, req PromptRequest) (string, error) {
	reply, err := client.ChatResponse(ctx, req.ConversationID, req.Message, req.LLM, req.Language)
	if err != nil {
		return "", fmt.Errorf("failed to get response for conversation %s: %w", req.ConversationID, err)
	}

	if err := messages.Append(ctx, store.Message{
		ID:             uuid.New().String(),
		ConversationID: req.ConversationID,
		ClientID:       req.ClientID,
		Context:        reply,
		Sender:         store.SenderBot,
		CreatedTime:    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return "", fmt.Errorf("failed to store bot reply for conversation %s: %w", req.ConversationID, err)
	}

	name, err := client.ConversationName(ctx, req.Message)
	if err != nil {
		logger.Warn("failed to generate conversation name", "conversationId", req.ConversationID, "error", err)
		return reply, nil
	}
	if _, err := conversations.Rename(ctx, req.ConversationID, name); err != nil {
		logger.Warn("failed to rename conversation", "conversationId", req.ConversationID, "error", err)
	}
	return reply, nil
}

// normalizeStatus folds the processor's queue vocabulary into ours.
func normalizeStatus(status string) string {
	switch status {
	case "completed":
		return StatusFinished
	case "started":
		return StatusActive
	case "":
		return StatusNotFound
	default:
		return status
	}
}
