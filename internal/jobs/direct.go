package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"docuchat/internal/processor"
	"docuchat/internal/store"
)

// DirectSubmitter bypasses the local queue: indexing jobs go straight to the
// processor's own queue and prompt jobs complete synchronously before the
// receipt is returned.
type DirectSubmitter struct {
	client        *processor.Client
	messages      store.MessageStore
	conversations store.ConversationStore
	log           store.JobLog
	logger        *slog.Logger
}

// NewDirectSubmitter creates a new DirectSubmitter.
func NewDirectSubmitter(client *processor.Client, messages store.MessageStore, conversations store.ConversationStore, log store.JobLog, logger *slog.Logger) *DirectSubmitter {
	return &DirectSubmitter{
		client:        client,
		messages:      messages,
		conversations: conversations,
		log:           log,
		logger:        logger,
	}
}

// SubmitIndex hands the work to the processor and relays its job id.
func (s *DirectSubmitter) SubmitIndex(ctx context.Context, req IndexRequest) (Receipt, error) {
	jobID, err := s.client.IndexPDF(ctx, processor.IndexRequest{
		ChatID:         req.ConversationID,
		DocID:          req.DocID,
		URL:            req.URL,
		FilePath:       req.FilePath,
		TopicModel:     req.TopicModel,
		Language:       req.Language,
		NumberOfTopics: req.NumberOfTopics,
	})
	if err != nil {
		return Receipt{Status: StatusFailed}, fmt.Errorf("failed to submit index job: %w", err)
	}

	if err := audit(ctx, s.log, "direct", jobID, KindIndex, req); err != nil {
		s.logger.Warn("failed to write job audit record", "jobId", jobID, "error", err)
	}
	return Receipt{Status: StatusQueued, JobID: jobID}, nil
}

// SubmitPrompt completes the prompt before returning, so its receipt is
// already finished and is never polled.
func (s *DirectSubmitter) SubmitPrompt(ctx context.Context, req PromptRequest) (Receipt, error) {
	jobID := uuid.New().String()
	if err := audit(ctx, s.log, "direct", jobID, KindPrompt, req); err != nil {
		s.logger.Warn("failed to write job audit record", "jobId", jobID, "error", err)
	}

	if _, err := completePrompt(ctx, s.client, s.messages, s.conversations, s.logger, req); err != nil {
		return Receipt{Status: StatusFailed, JobID: jobID}, err
	}
	return Receipt{Status: StatusFinished, JobID: jobID}, nil
}

// Status asks the processor for the job's state.
func (s *DirectSubmitter) Status(ctx context.Context, jobID string) (string, error) {
	status, err := s.client.Status(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("failed to get status of job %s: %w", jobID, err)
	}
	return normalizeStatus(status), nil
}

var _ Submitter = (*DirectSubmitter)(nil)
