package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"docuchat/internal/store"
)

// statusTTL bounds how long a finished job's state stays queryable.
const statusTTL = 24 * time.Hour

func statusKey(queue, jobID string) string {
	return fmt.Sprintf("%s:status:%s", queue, jobID)
}

// QueueSubmitter pushes jobs onto a Redis list and reports their state from
// per-job status keys maintained by the worker pool.
type QueueSubmitter struct {
	rdb    *goredis.Client
	queue  string
	log    store.JobLog
	logger *slog.Logger
}

// NewQueueSubmitter creates a new QueueSubmitter.
func NewQueueSubmitter(rdb *goredis.Client, queue string, log store.JobLog, logger *slog.Logger) *QueueSubmitter {
	return &QueueSubmitter{rdb: rdb, queue: queue, log: log, logger: logger}
}

// SubmitIndex enqueues one indexing job.
func (s *QueueSubmitter) SubmitIndex(ctx context.Context, req IndexRequest) (Receipt, error) {
	return s.enqueue(ctx, job{
		ID:        uuid.New().String(),
		Kind:      KindIndex,
		Index:     &req,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, req)
}

// SubmitPrompt enqueues one prompt job.
func (s *QueueSubmitter) SubmitPrompt(ctx context.Context, req PromptRequest) (Receipt, error) {
	return s.enqueue(ctx, job{
		ID:        uuid.New().String(),
		Kind:      KindPrompt,
		Prompt:    &req,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, req)
}

func (s *QueueSubmitter) enqueue(ctx context.Context, j job, payload any) (Receipt, error) {
	raw, err := json.Marshal(j)
	if err != nil {
		return Receipt{Status: StatusFailed}, fmt.Errorf("failed to encode job %s: %w", j.ID, err)
	}

	if err := s.rdb.Set(ctx, statusKey(s.queue, j.ID), StatusQueued, statusTTL).Err(); err != nil {
		return Receipt{Status: StatusFailed}, fmt.Errorf("failed to mark job %s queued: %w", j.ID, err)
	}
	if err := s.rdb.LPush(ctx, s.queue, raw).Err(); err != nil {
		return Receipt{Status: StatusFailed}, fmt.Errorf("failed to enqueue job %s: %w", j.ID, err)
	}

	if err := audit(ctx, s.log, s.queue, j.ID, j.Kind, payload); err != nil {
		s.logger.Warn("failed to write job audit record", "jobId", j.ID, "error", err)
	}
	return Receipt{Status: StatusQueued, JobID: j.ID}, nil
}

// Status reads the job's status key.
func (s *QueueSubmitter) Status(ctx context.Context, jobID string) (string, error) {
	status, err := s.rdb.Get(ctx, statusKey(s.queue, jobID)).Result()
	if errors.Is(err, goredis.Nil) {
		return StatusNotFound, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get status of job %s: %w", jobID, err)
	}
	return status, nil
}

var _ Submitter = (*QueueSubmitter)(nil)
