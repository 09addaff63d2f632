// Package handlers holds the HTTP handlers for the chat backend API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docuchat/internal/contextutil"
	"docuchat/internal/processor"
	"docuchat/internal/store"
)

// IndexRemover tells the external processor to drop a conversation's indexed
// data, or a single document of it. Deletion handlers call it best-effort.
type IndexRemover interface {
	RemoveDocument(ctx context.Context, chatID, documentID string) error
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// handleStoreError maps store and processor errors to HTTP status codes.
func handleStoreError(w http.ResponseWriter, ctx context.Context, logger *slog.Logger, err error, defaultMsg string) {
	logger.ErrorContext(ctx, defaultMsg, "error", err)

	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if errors.Is(err, processor.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}
	writeError(w, http.StatusInternalServerError, defaultMsg)
}

func getLogger(ctx context.Context) *slog.Logger {
	return contextutil.LoggerFromContext(ctx)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
