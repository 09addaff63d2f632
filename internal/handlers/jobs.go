package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docuchat/internal/jobs"
	"docuchat/internal/snapshot"
	"docuchat/internal/tracker"
)

// JobHandler handles job submission and status polling.
type JobHandler struct {
	submitter jobs.Submitter
	tickets   snapshot.TicketRegistrar
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(submitter jobs.Submitter, tickets snapshot.TicketRegistrar) *JobHandler {
	return &JobHandler{submitter: submitter, tickets: tickets}
}

// SubmitIndexRequest represents the payload for submitting an index job.
type SubmitIndexRequest struct {
	ConversationID string `json:"conversationId"`
	DocID          string `json:"docId"`
	URL            string `json:"url"`
	FilePath       string `json:"filePath"`
	Label          string `json:"label"`
	Kind           string `json:"kind"`
	TopicModel     string `json:"topicModel"`
	Language       string `json:"language"`
	NumberOfTopics int    `json:"numberOfTopics"`
}

// SubmitIndex submits an index job and tracks its settlement.
func (h *JobHandler) SubmitIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	var req SubmitIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "conversationId is required")
		return
	}
	if req.DocID == "" {
		writeError(w, http.StatusBadRequest, "docId is required")
		return
	}
	if req.Kind == "" {
		req.Kind = tracker.KindFile
	}
	if req.Kind != tracker.KindFile && req.Kind != tracker.KindHyperlink {
		writeError(w, http.StatusBadRequest, "kind must be file or hyperlink")
		return
	}

	receipt, err := h.submitter.SubmitIndex(ctx, jobs.IndexRequest{
		ConversationID: req.ConversationID,
		DocID:          req.DocID,
		URL:            req.URL,
		FilePath:       req.FilePath,
		TopicModel:     req.TopicModel,
		Language:       req.Language,
		NumberOfTopics: req.NumberOfTopics,
	})
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to submit index job")
		return
	}

	h.tickets.Register(tracker.Ticket{
		JobID:          receipt.JobID,
		ConversationID: req.ConversationID,
		ItemID:         req.DocID,
		Label:          req.Label,
		Kind:           req.Kind,
	})
	writeJSON(w, http.StatusAccepted, receipt)
}

// SubmitPromptRequest represents the payload for submitting a prompt job.
type SubmitPromptRequest struct {
	ConversationID string `json:"conversationId"`
	ClientID       string `json:"clientId"`
	Message        string `json:"message"`
	LLM            string `json:"llm"`
	Language       string `json:"language"`
}

// SubmitPrompt submits a prompt job. The bot reply lands in the conversation's
// history when the job completes, not in this response.
func (h *JobHandler) SubmitPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	var req SubmitPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConversationID == "" {
		writeError(w, http.StatusBadRequest, "conversationId is required")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	receipt, err := h.submitter.SubmitPrompt(ctx, jobs.PromptRequest{
		ConversationID: req.ConversationID,
		ClientID:       req.ClientID,
		Message:        req.Message,
		LLM:            req.LLM,
		Language:       req.Language,
	})
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to submit prompt job")
		return
	}

	// A direct submission settles before it returns; only queued jobs need
	// a ticket so a failure still reaches the conversation.
	if receipt.Status == jobs.StatusQueued {
		h.tickets.Register(tracker.Ticket{
			JobID:          receipt.JobID,
			ConversationID: req.ConversationID,
			Kind:           tracker.KindPrompt,
		})
	}
	writeJSON(w, http.StatusAccepted, receipt)
}

// Status reports the state of a submitted job.
func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	jobID := chi.URLParam(r, "jobId")

	status, err := h.submitter.Status(ctx, jobID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to get job status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
