package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docuchat/internal/snapshot"
	"docuchat/internal/store"
	"docuchat/internal/uploads"
)

// ConversationHandler handles the conversation ledger and lifecycle.
type ConversationHandler struct {
	conversations store.ConversationStore
	messages      store.MessageStore
	files         store.FileStore
	hyperlinks    store.HyperlinkStore
	migrator      *snapshot.Migrator
	binaries      *uploads.Store
	indexes       IndexRemover
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversations store.ConversationStore, messages store.MessageStore, files store.FileStore, hyperlinks store.HyperlinkStore, migrator *snapshot.Migrator, binaries *uploads.Store, indexes IndexRemover) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		messages:      messages,
		files:         files,
		hyperlinks:    hyperlinks,
		migrator:      migrator,
		binaries:      binaries,
		indexes:       indexes,
	}
}

// CreateConversationRequest represents the payload for creating a conversation.
type CreateConversationRequest struct {
	ID               string `json:"id"`
	ConversationName string `json:"conversationName"`
	TopicModel       string `json:"topicModel"`
	Language         string `json:"language"`
	NumberOfTopics   int    `json:"numberOfTopics"`
}

// CreateConversationResponse is the created conversation plus how much of the
// holding area moved in with it.
type CreateConversationResponse struct {
	store.Conversation
	MigratedDocs       int `json:"migratedDocs"`
	MigratedHyperlinks int `json:"migratedHyperlinks"`
}

// Create registers a conversation, prepares its stores, and migrates the
// temporary holding area into it.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	conversation := store.Conversation{
		ID:               req.ID,
		ConversationName: req.ConversationName,
		CreatedTime:      nowRFC3339(),
	}
	if conversation.ConversationName == "" {
		conversation.ConversationName = store.DefaultConversationName
	}

	if err := h.conversations.Create(ctx, conversation); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to create conversation")
		return
	}
	if err := h.messages.CreateHistory(ctx, conversation.ID); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to create chat history")
		return
	}
	if err := h.hyperlinks.CreateStore(ctx, conversation.ID); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to create hyperlink store")
		return
	}

	docs, links, err := h.migrator.Migrate(ctx, conversation.ID, snapshot.Options{
		TopicModel:     req.TopicModel,
		Language:       req.Language,
		NumberOfTopics: req.NumberOfTopics,
	})
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to migrate temporary items")
		return
	}

	logger.InfoContext(ctx, "conversation created", "conversationId", conversation.ID, "migratedDocs", docs, "migratedHyperlinks", links)
	writeJSON(w, http.StatusCreated, CreateConversationResponse{
		Conversation:       conversation,
		MigratedDocs:       docs,
		MigratedHyperlinks: links,
	})
}

// List returns every conversation in the ledger.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	conversations, err := h.conversations.FindAll(ctx)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to list conversations")
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

// Delete removes a conversation: its ledger row, its stores, and the uploaded
// bytes of its files.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	removed, err := h.conversations.Remove(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to remove conversation")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	// Binaries first, while their ids are still readable.
	files, err := h.files.FindAll(ctx, conversationID)
	if err != nil {
		logger.WarnContext(ctx, "failed to list files during delete", "conversationId", conversationID, "error", err)
	}
	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	if err := h.binaries.RemoveAll(ids); err != nil {
		logger.WarnContext(ctx, "failed to remove uploaded files", "conversationId", conversationID, "error", err)
	}

	h.dropStores(ctx, conversationID, logger)
	if err := h.indexes.RemoveDocument(ctx, conversationID, ""); err != nil {
		logger.WarnContext(ctx, "failed to drop indexed data", "conversationId", conversationID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConversationHandler) dropStores(ctx context.Context, conversationID string, logger *slog.Logger) {
	if err := h.messages.DropHistory(ctx, conversationID); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.WarnContext(ctx, "failed to drop chat history", "conversationId", conversationID, "error", err)
	}
	if err := h.files.Drop(ctx, conversationID); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.WarnContext(ctx, "failed to drop file store", "conversationId", conversationID, "error", err)
	}
	if err := h.hyperlinks.Drop(ctx, conversationID); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.WarnContext(ctx, "failed to drop hyperlink store", "conversationId", conversationID, "error", err)
	}
}

// RenameConversationRequest represents the payload for renaming.
type RenameConversationRequest struct {
	ConversationName string `json:"conversationName"`
}

// Rename updates a conversation's name in the ledger.
func (h *ConversationHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	var req RenameConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConversationName == "" {
		writeError(w, http.StatusBadRequest, "conversationName is required")
		return
	}

	renamed, err := h.conversations.Rename(ctx, conversationID, req.ConversationName)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to rename conversation")
		return
	}
	if !renamed {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":               conversationID,
		"conversationName": req.ConversationName,
	})
}
