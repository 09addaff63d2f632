package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docuchat/internal/store"
)

// HyperlinkHandler handles per-conversation hyperlink records.
type HyperlinkHandler struct {
	hyperlinks store.HyperlinkStore
}

// NewHyperlinkHandler creates a new HyperlinkHandler.
func NewHyperlinkHandler(hyperlinks store.HyperlinkStore) *HyperlinkHandler {
	return &HyperlinkHandler{hyperlinks: hyperlinks}
}

// AppendHyperlinkRequest represents the payload for attaching a hyperlink.
type AppendHyperlinkRequest struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Append attaches one hyperlink to a conversation.
func (h *HyperlinkHandler) Append(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	var req AppendHyperlinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Link == "" {
		writeError(w, http.StatusBadRequest, "link is required")
		return
	}

	hyperlink := store.HistoryHyperlink{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Title:          req.Title,
		Link:           req.Link,
		CreatedTime:    nowRFC3339(),
	}
	if err := h.hyperlinks.Append(ctx, hyperlink); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to append hyperlink")
		return
	}
	writeJSON(w, http.StatusCreated, hyperlink)
}

// List returns a conversation's hyperlinks, empty when none were attached.
func (h *HyperlinkHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	hyperlinks, err := h.hyperlinks.FindAll(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to list hyperlinks")
		return
	}
	writeJSON(w, http.StatusOK, hyperlinks)
}

// Delete removes a single hyperlink record.
func (h *HyperlinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")
	hyperlinkID := chi.URLParam(r, "hyperlinkId")

	removed, err := h.hyperlinks.Remove(ctx, conversationID, hyperlinkID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to remove hyperlink")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Hyperlink not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
