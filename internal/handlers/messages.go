package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docuchat/internal/store"
)

// MessageHandler handles per-conversation chat history.
type MessageHandler struct {
	messages store.MessageStore
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages store.MessageStore) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// AppendMessageRequest represents the payload for posting a message.
type AppendMessageRequest struct {
	ClientID string `json:"clientId"`
	Context  string `json:"context"`
	Sender   string `json:"sender"`
}

// Append posts one message into an existing conversation history.
func (h *MessageHandler) Append(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	var req AppendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Context == "" {
		writeError(w, http.StatusBadRequest, "context is required")
		return
	}
	if req.Sender == "" {
		req.Sender = store.SenderClient
	}
	if req.Sender != store.SenderClient && req.Sender != store.SenderBot {
		writeError(w, http.StatusBadRequest, "sender must be client or bot")
		return
	}

	message := store.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		ClientID:       req.ClientID,
		Context:        req.Context,
		Sender:         req.Sender,
		CreatedTime:    nowRFC3339(),
	}
	if err := h.messages.Append(ctx, message); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to append message")
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

// List returns a conversation's messages. A conversation whose history was
// never created is a 404, unlike the list stores that default to empty.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	has, err := h.messages.HasHistory(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to check chat history")
		return
	}
	if !has {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	messages, err := h.messages.FindAll(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to read chat history")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
