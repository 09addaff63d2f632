package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docuchat/internal/store"
	"docuchat/internal/uploads"
)

// maxUploadSize caps the multipart form memory for document uploads.
const maxUploadSize = 50 << 20

// UploadHandler stores uploaded documents and registers them in the holding
// area.
type UploadHandler struct {
	binaries *uploads.Store
	temp     store.TemporaryStore
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(binaries *uploads.Store, temp store.TemporaryStore) *UploadHandler {
	return &UploadHandler{binaries: binaries, temp: temp}
}

// Save stores the uploaded document's bytes and appends its temporary record.
func (h *UploadHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	id := r.FormValue("id")
	if id == "" {
		id = uuid.New().String()
	}

	size, err := h.binaries.Save(id, file)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to store upload")
		return
	}

	doc := store.TemporaryDoc{
		ID:           id,
		OriginalName: header.Filename,
		PathName:     "/uploads/" + id + ".pdf",
		Type:         header.Header.Get("Content-Type"),
		Size:         strconv.FormatInt(size, 10),
		CreatedTime:  nowRFC3339(),
	}
	if err := h.temp.AppendDoc(ctx, doc); err != nil {
		// Keep the store consistent: no record, no bytes.
		_ = h.binaries.Remove(id)
		handleStoreError(w, ctx, logger, err, "Failed to register upload")
		return
	}

	logger.InfoContext(ctx, "document uploaded", "docId", id, "name", header.Filename, "size", size)
	writeJSON(w, http.StatusCreated, doc)
}

// Serve streams a previously uploaded document.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	id := chi.URLParam(r, "docId")

	f, err := h.binaries.Open(id)
	if errors.Is(err, uploads.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Upload not found")
		return
	}
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to open upload")
		return
	}
	defer func() {
		_ = f.Close()
	}()

	w.Header().Set("Content-Type", "application/pdf")
	if _, err := io.Copy(w, f); err != nil {
		logger.ErrorContext(ctx, "failed to stream upload", "docId", id, "error", err)
	}
}
