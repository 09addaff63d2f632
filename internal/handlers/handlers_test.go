package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"docuchat/internal/jobs"
	"docuchat/internal/snapshot"
	"docuchat/internal/store"
	"docuchat/internal/tracker"
	"docuchat/internal/uploads"
)

// testStores bundles CSV-backed repos over one temp directory.
type testStores struct {
	records       store.RecordStore
	conversations store.ConversationStore
	messages      store.MessageStore
	files         store.FileStore
	hyperlinks    store.HyperlinkStore
	temporary     store.TemporaryStore
	binaries      *uploads.Store
}

func newTestStores(t *testing.T) testStores {
	t.Helper()
	records := store.NewCSVStore(t.TempDir())
	return testStores{
		records:       records,
		conversations: store.NewConversationRepo(records),
		messages:      store.NewMessageRepo(records),
		files:         store.NewFileRepo(records),
		hyperlinks:    store.NewHyperlinkRepo(records),
		temporary:     store.NewTemporaryRepo(records),
		binaries:      uploads.NewStore(t.TempDir()),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSubmitter records submissions and answers statuses from a fixed map.
type stubSubmitter struct {
	indexed  []jobs.IndexRequest
	prompted []jobs.PromptRequest
	statuses map[string]string
	fail     bool
}

func (s *stubSubmitter) SubmitIndex(_ context.Context, req jobs.IndexRequest) (jobs.Receipt, error) {
	if s.fail {
		return jobs.Receipt{Status: jobs.StatusFailed}, errors.New("submit failed")
	}
	s.indexed = append(s.indexed, req)
	return jobs.Receipt{Status: jobs.StatusQueued, JobID: "job-" + req.DocID}, nil
}

func (s *stubSubmitter) SubmitPrompt(_ context.Context, req jobs.PromptRequest) (jobs.Receipt, error) {
	if s.fail {
		return jobs.Receipt{Status: jobs.StatusFailed}, errors.New("submit failed")
	}
	s.prompted = append(s.prompted, req)
	return jobs.Receipt{Status: jobs.StatusQueued, JobID: "job-prompt"}, nil
}

func (s *stubSubmitter) Status(_ context.Context, jobID string) (string, error) {
	if status, ok := s.statuses[jobID]; ok {
		return status, nil
	}
	return jobs.StatusNotFound, nil
}

// removal records one processor remove-document call.
type removal struct {
	ConversationID string
	DocumentID     string
}

// stubIndexRemover records remove-document calls and optionally fails them.
type stubIndexRemover struct {
	removed []removal
	err     error
}

func (s *stubIndexRemover) RemoveDocument(_ context.Context, chatID, documentID string) error {
	if s.err != nil {
		return s.err
	}
	s.removed = append(s.removed, removal{ConversationID: chatID, DocumentID: documentID})
	return nil
}

type stubRegistrar struct {
	tickets []tracker.Ticket
}

func (r *stubRegistrar) Register(t tracker.Ticket) {
	r.tickets = append(r.tickets, t)
}

func newTestMigrator(t *testing.T, s testStores, submitter jobs.Submitter, registrar snapshot.TicketRegistrar) *snapshot.Migrator {
	t.Helper()
	return snapshot.NewMigrator(s.temporary, s.files, s.hyperlinks, submitter, registrar, s.binaries, discardLogger())
}
