// Package snapshot moves the pre-conversation holding area into a newly
// created conversation: temporary docs and hyperlinks become history records,
// each with an indexing job submitted and tracked.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"docuchat/internal/jobs"
	"docuchat/internal/store"
	"docuchat/internal/tracker"
	"docuchat/internal/uploads"
)

// TicketRegistrar accepts tickets for submitted jobs.
type TicketRegistrar interface {
	Register(ticket tracker.Ticket)
}

// Options carry the indexing parameters chosen at conversation creation.
type Options struct {
	TopicModel     string
	Language       string
	NumberOfTopics int
}

// Migrator migrates the temporary stores into a conversation.
type Migrator struct {
	temp       store.TemporaryStore
	files      store.FileStore
	hyperlinks store.HyperlinkStore
	submitter  jobs.Submitter
	tickets    TicketRegistrar
	binaries   *uploads.Store
	logger     *slog.Logger
}

// NewMigrator creates a new Migrator.
func NewMigrator(temp store.TemporaryStore, files store.FileStore, hyperlinks store.HyperlinkStore, submitter jobs.Submitter, tickets TicketRegistrar, binaries *uploads.Store, logger *slog.Logger) *Migrator {
	return &Migrator{
		temp:       temp,
		files:      files,
		hyperlinks: hyperlinks,
		submitter:  submitter,
		tickets:    tickets,
		binaries:   binaries,
		logger:     logger,
	}
}

// Migrate moves every temporary doc and hyperlink into the conversation,
// submitting one indexing job per item. Migration is best effort per item: an
// item whose submission fails stays in the holding area and the rest proceed.
// The returned counts are the items actually migrated.
func (m *Migrator) Migrate(ctx context.Context, conversationID string, opts Options) (docs, hyperlinks int, err error) {
	tempDocs, err := m.temp.FindAllDocs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list temporary docs: %w", err)
	}
	tempLinks, err := m.temp.FindAllHyperlinks(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list temporary hyperlinks: %w", err)
	}

	for _, doc := range tempDocs {
		if m.migrateDoc(ctx, conversationID, doc, opts) {
			docs++
		}
	}
	for _, link := range tempLinks {
		if m.migrateHyperlink(ctx, conversationID, link, opts) {
			hyperlinks++
		}
	}
	return docs, hyperlinks, nil
}

func (m *Migrator) migrateDoc(ctx context.Context, conversationID string, doc store.TemporaryDoc, opts Options) bool {
	req := jobs.IndexRequest{
		ConversationID: conversationID,
		DocID:          doc.ID,
		TopicModel:     opts.TopicModel,
		Language:       opts.Language,
		NumberOfTopics: opts.NumberOfTopics,
	}
	if path := m.binaries.Path(doc.ID); fileExists(path) {
		req.FilePath = path
	}

	receipt, err := m.submitter.SubmitIndex(ctx, req)
	if err != nil {
		m.logger.Error("failed to submit index job for doc", "docId", doc.ID, "error", err)
		return false
	}

	if err := m.files.AppendAll(ctx, conversationID, []store.HistoryFile{{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		PathName:     doc.PathName,
		Type:         doc.Type,
		Size:         doc.Size,
		CreatedTime:  doc.CreatedTime,
	}}); err != nil {
		m.logger.Error("failed to attach doc to conversation", "docId", doc.ID, "error", err)
		return false
	}

	if _, err := m.temp.RemoveDoc(ctx, doc.ID); err != nil {
		m.logger.Warn("failed to clear temporary doc", "docId", doc.ID, "error", err)
	}
	m.tickets.Register(tracker.Ticket{
		JobID:          receipt.JobID,
		ConversationID: conversationID,
		ItemID:         doc.ID,
		Label:          doc.OriginalName,
		Kind:           tracker.KindFile,
	})
	return true
}

func (m *Migrator) migrateHyperlink(ctx context.Context, conversationID string, link store.TemporaryHyperlink, opts Options) bool {
	receipt, err := m.submitter.SubmitIndex(ctx, jobs.IndexRequest{
		ConversationID: conversationID,
		DocID:          link.ID,
		URL:            link.Link,
		TopicModel:     opts.TopicModel,
		Language:       opts.Language,
		NumberOfTopics: opts.NumberOfTopics,
	})
	if err != nil {
		m.logger.Error("failed to submit index job for hyperlink", "hyperlinkId", link.ID, "error", err)
		return false
	}

	if err := m.hyperlinks.Append(ctx, store.HistoryHyperlink{
		ID:             link.ID,
		ConversationID: conversationID,
		Title:          link.Title,
		Link:           link.Link,
		CreatedTime:    link.CreatedTime,
	}); err != nil {
		m.logger.Error("failed to attach hyperlink to conversation", "hyperlinkId", link.ID, "error", err)
		return false
	}

	if _, err := m.temp.RemoveHyperlink(ctx, link.ID); err != nil {
		m.logger.Warn("failed to clear temporary hyperlink", "hyperlinkId", link.ID, "error", err)
	}

	label := link.Title
	if label == "" {
		label = link.Link
	}
	m.tickets.Register(tracker.Ticket{
		JobID:          receipt.JobID,
		ConversationID: conversationID,
		ItemID:         link.ID,
		Label:          label,
		Kind:           tracker.KindHyperlink,
	})
	return true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
