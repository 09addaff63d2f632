package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docuchat/internal/store"
	"docuchat/internal/uploads"
)

// Deletion modes for temporary docs.
const (
	DeleteTypeSoft = "SoftDeleted"
	DeleteTypeFull = "Deleted"
)

// TemporaryHandler handles the pre-conversation holding area.
type TemporaryHandler struct {
	temp     store.TemporaryStore
	binaries *uploads.Store
}

// NewTemporaryHandler creates a new TemporaryHandler.
func NewTemporaryHandler(temp store.TemporaryStore, binaries *uploads.Store) *TemporaryHandler {
	return &TemporaryHandler{temp: temp, binaries: binaries}
}

// AppendTemporaryDocRequest represents the payload for registering a doc.
type AppendTemporaryDocRequest struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	PathName     string `json:"pathName"`
	Type         string `json:"type"`
	Size         string `json:"size"`
}

// AppendDoc registers one temporary doc record.
func (h *TemporaryHandler) AppendDoc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	var req AppendTemporaryDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OriginalName == "" {
		writeError(w, http.StatusBadRequest, "originalName is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	doc := store.TemporaryDoc{
		ID:           req.ID,
		OriginalName: req.OriginalName,
		PathName:     req.PathName,
		Type:         req.Type,
		Size:         req.Size,
		CreatedTime:  nowRFC3339(),
	}
	if err := h.temp.AppendDoc(ctx, doc); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to append temporary doc")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// ListDocs returns every temporary doc, empty when the holding area is cold.
func (h *TemporaryHandler) ListDocs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	docs, err := h.temp.FindAllDocs(ctx)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to list temporary docs")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// DeleteDoc removes a temporary doc record, and its uploaded bytes when the
// type query names a full delete.
func (h *TemporaryHandler) DeleteDoc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	docID := chi.URLParam(r, "docId")

	deleteType := r.URL.Query().Get("type")
	if deleteType != DeleteTypeSoft && deleteType != DeleteTypeFull {
		writeError(w, http.StatusBadRequest, "type must be SoftDeleted or Deleted")
		return
	}

	removed, err := h.temp.RemoveDoc(ctx, docID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to remove temporary doc")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Temporary doc not found")
		return
	}

	if deleteType == DeleteTypeFull {
		if err := h.binaries.Remove(docID); err != nil {
			logger.WarnContext(ctx, "failed to remove uploaded file", "docId", docID, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// AppendTemporaryHyperlinkRequest represents the payload for registering a
// hyperlink.
type AppendTemporaryHyperlinkRequest struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// AppendHyperlink registers one temporary hyperlink.
func (h *TemporaryHandler) AppendHyperlink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	var req AppendTemporaryHyperlinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Link == "" {
		writeError(w, http.StatusBadRequest, "link is required")
		return
	}

	hyperlink := store.TemporaryHyperlink{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Link:        req.Link,
		CreatedTime: nowRFC3339(),
	}
	if err := h.temp.AppendHyperlink(ctx, hyperlink); err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to append temporary hyperlink")
		return
	}
	writeJSON(w, http.StatusCreated, hyperlink)
}

// ListHyperlinks returns every temporary hyperlink.
func (h *TemporaryHandler) ListHyperlinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	hyperlinks, err := h.temp.FindAllHyperlinks(ctx)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to list temporary hyperlinks")
		return
	}
	writeJSON(w, http.StatusOK, hyperlinks)
}

// DeleteHyperlink removes a temporary hyperlink record.
func (h *TemporaryHandler) DeleteHyperlink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	hyperlinkID := chi.URLParam(r, "hyperlinkId")

	removed, err := h.temp.RemoveHyperlink(ctx, hyperlinkID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to remove temporary hyperlink")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Temporary hyperlink not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
