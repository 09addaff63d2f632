package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docuchat/internal/store"
	"docuchat/internal/uploads"
)

// FileHandler handles per-conversation file records.
type FileHandler struct {
	files    store.FileStore
	binaries *uploads.Store
	indexes  IndexRemover
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(files store.FileStore, binaries *uploads.Store, indexes IndexRemover) *FileHandler {
	return &FileHandler{files: files, binaries: binaries, indexes: indexes}
}

// BulkAppend attaches a batch of file records to a conversation.
func (h *FileHandler) BulkAppend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	var files []store.HistoryFile
	if err := json.NewDecoder(r.Body).Decode(&files); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file is required")
		return
	}
	for i := range files {
		if files[i].ID == "" {
			files[i].ID = uuid.New().String()
		}
		if files[i].CreatedTime == "" {
			files[i].CreatedTime = nowRFC3339()
		}
	}

	if err := h.files.AppendAll(ctx, conversationID, files); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to append files")
		return
	}
	writeJSON(w, http.StatusCreated, files)
}

// List returns a conversation's file records, empty when none were attached.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	files, err := h.files.FindAll(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to list files")
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// BulkDelete drops the conversation's whole file store and its binaries.
func (h *FileHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	files, err := h.files.FindAll(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to list files")
		return
	}
	ids := make([]string, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	if err := h.binaries.RemoveAll(ids); err != nil {
		logger.WarnContext(ctx, "failed to remove uploaded files", "conversationId", conversationID, "error", err)
	}

	if err := h.files.Drop(ctx, conversationID); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to drop file store")
		return
	}
	if err := h.indexes.RemoveDocument(ctx, conversationID, ""); err != nil {
		logger.WarnContext(ctx, "failed to drop indexed data", "conversationId", conversationID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a single file record and its uploaded bytes.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")
	fileID := chi.URLParam(r, "fileId")

	removed, err := h.files.Remove(ctx, conversationID, fileID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to remove file")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	if err := h.binaries.Remove(fileID); err != nil {
		logger.WarnContext(ctx, "failed to remove uploaded file", "fileId", fileID, "error", err)
	}
	if err := h.indexes.RemoveDocument(ctx, conversationID, fileID); err != nil {
		logger.WarnContext(ctx, "failed to drop indexed data", "conversationId", conversationID, "fileId", fileID, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
