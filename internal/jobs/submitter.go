// Package jobs submits indexing and prompt work, either directly to the
// processor or through a Redis-backed queue consumed by a local worker pool.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"docuchat/internal/store"
)

// Job states, as reported by Status.
const (
	StatusQueued   = "queued"
	StatusActive   = "active"
	StatusFinished = "finished"
	StatusFailed   = "failed"
	StatusNotFound = "not-found"
)

// Job kinds.
const (
	KindIndex  = "indexDataJob"
	KindPrompt = "responseMessageJob"
)

// IndexRequest describes one document or hyperlink to index.
type IndexRequest struct {
	ConversationID string `json:"conversationId"`
	DocID          string `json:"docId"`
	URL            string `json:"url,omitempty"`
	FilePath       string `json:"filePath,omitempty"`
	TopicModel     string `json:"topicModel"`
	Language       string `json:"language"`
	NumberOfTopics int    `json:"numberOfTopics"`
}

// PromptRequest describes one chat message awaiting a bot reply.
type PromptRequest struct {
	ConversationID string `json:"conversationId"`
	ClientID       string `json:"clientId"`
	Message        string `json:"message"`
	LLM            string `json:"llm"`
	Language       string `json:"language"`
}

// Receipt is what a submission returns to the caller. The job id is only
// meaningful for polling Status on the same submitter.
type Receipt struct {
	Status string `json:"status"`
	JobID  string `json:"jobId"`
}

// Submitter accepts indexing and prompt jobs and reports their state.
type Submitter interface {
	// SubmitIndex submits one indexing job.
	SubmitIndex(ctx context.Context, req IndexRequest) (Receipt, error)
	// SubmitPrompt submits one prompt job. Its side effects (bot reply,
	// conversation rename) land in the stores, not in the receipt.
	SubmitPrompt(ctx context.Context, req PromptRequest) (Receipt, error)
	// Status reports the state of a previously submitted job.
	Status(ctx context.Context, jobID string) (string, error)
}

// job is the queued wire form of a submission.
type job struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Index     *IndexRequest  `json:"index,omitempty"`
	Prompt    *PromptRequest `json:"prompt,omitempty"`
	CreatedAt string         `json:"createdAt"`
}

// audit writes the append-only job log row. Submissions proceed even when the
// audit write fails; the log is informational.
func audit(ctx context.Context, log store.JobLog, queue, jobID, kind string, payload any) error {
	if log == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode audit payload: %w", err)
	}
	return log.Append(ctx, store.JobRecord{
		ID:        jobID,
		Queue:     queue,
		Action:    kind,
		Payload:   string(raw),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
