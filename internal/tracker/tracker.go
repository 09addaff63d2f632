// Package tracker polls submitted jobs and settles them: a finished indexing
// job posts a success message, a failed one removes the artifact and posts an
// apology, and a failed prompt job posts that the bot could not respond.
package tracker

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_status_fetcher.go -package=mocks docuchat/internal/tracker StatusFetcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_message_appender.go -package=mocks docuchat/internal/tracker MessageAppender
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_artifact_remover.go -package=mocks docuchat/internal/tracker ArtifactRemover

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"docuchat/internal/jobs"
	"docuchat/internal/store"
)

// Kinds of work a ticket can track.
const (
	KindFile      = "file"
	KindHyperlink = "hyperlink"
	KindPrompt    = "prompt"
)

// DefaultInterval is the poll period when none is configured.
const DefaultInterval = 3 * time.Second

// StatusFetcher reports the state of a submitted job.
type StatusFetcher interface {
	Status(ctx context.Context, jobID string) (string, error)
}

// MessageAppender posts a message into a conversation's history.
type MessageAppender interface {
	Append(ctx context.Context, message store.Message) error
}

// ArtifactRemover deletes the record (and bytes) of a failed artifact.
type ArtifactRemover interface {
	RemoveFile(ctx context.Context, conversationID, fileID string) error
	RemoveHyperlink(ctx context.Context, conversationID, hyperlinkID string) error
}

// Ticket is one in-flight indexing job awaiting settlement. Tickets live in
// memory only; a restart forgets them and their jobs settle silently.
type Ticket struct {
	JobID          string
	ConversationID string
	ItemID         string
	Label          string
	Kind           string
}

// Tracker polls pending tickets on a fixed interval.
type Tracker struct {
	status   StatusFetcher
	messages MessageAppender
	remover  ArtifactRemover
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	tickets map[string]Ticket
}

// New creates a new Tracker.
func New(status StatusFetcher, messages MessageAppender, remover ArtifactRemover, interval time.Duration, logger *slog.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		status:   status,
		messages: messages,
		remover:  remover,
		logger:   logger,
		interval: interval,
		tickets:  make(map[string]Ticket),
	}
}

// Register adds a ticket to the poll set. Re-registering a job id replaces
// the previous ticket.
func (t *Tracker) Register(ticket Ticket) {
	if ticket.JobID == "" {
		return
	}
	t.mu.Lock()
	t.tickets[ticket.JobID] = ticket
	t.mu.Unlock()
}

// Pending returns how many tickets are still awaiting settlement.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tickets)
}

// Start polls until ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep(ctx)
		}
	}
}

// Sweep checks every pending ticket once. A status fetch error leaves the
// ticket pending for the next sweep.
func (t *Tracker) Sweep(ctx context.Context) {
	t.mu.Lock()
	pending := make([]Ticket, 0, len(t.tickets))
	for _, ticket := range t.tickets {
		pending = append(pending, ticket)
	}
	t.mu.Unlock()

	for _, ticket := range pending {
		status, err := t.status.Status(ctx, ticket.JobID)
		if err != nil {
			t.logger.Warn("failed to poll job status", "jobId", ticket.JobID, "error", err)
			continue
		}
		switch status {
		case jobs.StatusFinished:
			t.settle(ctx, ticket, true)
		case jobs.StatusFailed:
			t.settle(ctx, ticket, false)
		}
	}
}

func (t *Tracker) settle(ctx context.Context, ticket Ticket, ok bool) {
	t.mu.Lock()
	delete(t.tickets, ticket.JobID)
	t.mu.Unlock()

	var text string
	switch ticket.Kind {
	case KindPrompt:
		// The worker already posted the bot reply on success.
		if ok {
			t.logger.Info("job settled", "jobId", ticket.JobID, "kind", ticket.Kind, "ok", ok)
			return
		}
		text = "⚠️ Bot could not respond at this time."
	case KindHyperlink:
		text = fmt.Sprintf("✅ Hyperlink %q indexed successfully", ticket.Label)
		if !ok {
			text = fmt.Sprintf("⚠️ Unfortunately, there was an issue uploading your hyperlink %q. Please try again later.", ticket.Label)
			if err := t.remover.RemoveHyperlink(ctx, ticket.ConversationID, ticket.ItemID); err != nil {
				t.logger.Error("failed to remove failed artifact", "jobId", ticket.JobID, "itemId", ticket.ItemID, "error", err)
			}
		}
	default:
		text = fmt.Sprintf("✅ File %q indexed successfully", ticket.Label)
		if !ok {
			text = fmt.Sprintf("⚠️ Unfortunately, there was an issue uploading your file %q. Please try again later.", ticket.Label)
			if err := t.remover.RemoveFile(ctx, ticket.ConversationID, ticket.ItemID); err != nil {
				t.logger.Error("failed to remove failed artifact", "jobId", ticket.JobID, "itemId", ticket.ItemID, "error", err)
			}
		}
	}

	if err := t.messages.Append(ctx, store.Message{
		ID:             uuid.New().String(),
		ConversationID: ticket.ConversationID,
		Context:        text,
		Sender:         store.SenderBot,
		CreatedTime:    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		t.logger.Error("failed to post settlement message", "jobId", ticket.JobID, "error", err)
	}

	t.logger.Info("job settled", "jobId", ticket.JobID, "label", ticket.Label, "ok", ok)
}
