package tracker

import (
	"context"

	"docuchat/internal/store"
	"docuchat/internal/uploads"
)

// Remover settles failed artifacts against the record stores and the binary
// upload store.
type Remover struct {
	files      store.FileStore
	hyperlinks store.HyperlinkStore
	binaries   *uploads.Store
}

// NewRemover creates a new Remover.
func NewRemover(files store.FileStore, hyperlinks store.HyperlinkStore, binaries *uploads.Store) *Remover {
	return &Remover{files: files, hyperlinks: hyperlinks, binaries: binaries}
}

// RemoveFile drops the file record and its uploaded bytes. A record already
// gone is fine; the job may have failed before the record landed.
func (r *Remover) RemoveFile(ctx context.Context, conversationID, fileID string) error {
	if _, err := r.files.Remove(ctx, conversationID, fileID); err != nil {
		return err
	}
	return r.binaries.Remove(fileID)
}

// RemoveHyperlink drops the hyperlink record.
func (r *Remover) RemoveHyperlink(ctx context.Context, conversationID, hyperlinkID string) error {
	_, err := r.hyperlinks.Remove(ctx, conversationID, hyperlinkID)
	return err
}

var _ ArtifactRemover = (*Remover)(nil)
