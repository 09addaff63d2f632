package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"docuchat/internal/jobs"
	"docuchat/internal/store"
	"docuchat/internal/tracker/mocks"
)

func testTracker(t *testing.T) (*Tracker, *mocks.MockStatusFetcher, *mocks.MockMessageAppender, *mocks.MockArtifactRemover) {
	t.Helper()
	ctrl := gomock.NewController(t)
	status := mocks.NewMockStatusFetcher(ctrl)
	messages := mocks.NewMockMessageAppender(ctrl)
	remover := mocks.NewMockArtifactRemover(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(status, messages, remover, DefaultInterval, logger), status, messages, remover
}

func TestTrackerSweepFinishedPostsSuccess(t *testing.T) {
	tr, status, messages, _ := testTracker(t)
	tr.Register(Ticket{JobID: "j1", ConversationID: "c1", ItemID: "d1", Label: "report.pdf", Kind: KindFile})

	status.EXPECT().Status(gomock.Any(), "j1").Return(jobs.StatusFinished, nil)
	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg store.Message) error {
			if msg.ConversationID != "c1" {
				t.Errorf("message conversation = %s, want c1", msg.ConversationID)
			}
			if msg.Sender != store.SenderBot {
				t.Errorf("message sender = %s, want bot", msg.Sender)
			}
			if !strings.Contains(msg.Context, `"report.pdf" indexed successfully`) {
				t.Errorf("message context = %q, want success text", msg.Context)
			}
			return nil
		})

	tr.Sweep(context.Background())
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}

func TestTrackerSweepFailedFileRemovesArtifact(t *testing.T) {
	tr, status, messages, remover := testTracker(t)
	tr.Register(Ticket{JobID: "j1", ConversationID: "c1", ItemID: "d1", Label: "report.pdf", Kind: KindFile})

	status.EXPECT().Status(gomock.Any(), "j1").Return(jobs.StatusFailed, nil)
	remover.EXPECT().RemoveFile(gomock.Any(), "c1", "d1").Return(nil)
	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg store.Message) error {
			if !strings.Contains(msg.Context, "there was an issue uploading your file") {
				t.Errorf("message context = %q, want failure text", msg.Context)
			}
			return nil
		})

	tr.Sweep(context.Background())
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}

func TestTrackerSweepFailedHyperlinkRemovesArtifact(t *testing.T) {
	tr, status, messages, remover := testTracker(t)
	tr.Register(Ticket{JobID: "j1", ConversationID: "c1", ItemID: "h1", Label: "https://example.com", Kind: KindHyperlink})

	status.EXPECT().Status(gomock.Any(), "j1").Return(jobs.StatusFailed, nil)
	remover.EXPECT().RemoveHyperlink(gomock.Any(), "c1", "h1").Return(nil)
	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg store.Message) error {
			if !strings.Contains(msg.Context, "there was an issue uploading your hyperlink") {
				t.Errorf("message context = %q, want hyperlink failure text", msg.Context)
			}
			return nil
		})

	tr.Sweep(context.Background())
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}

func TestTrackerSweepFinishedHyperlinkWording(t *testing.T) {
	tr, status, messages, _ := testTracker(t)
	tr.Register(Ticket{JobID: "j1", ConversationID: "c1", ItemID: "h1", Label: "https://example.com", Kind: KindHyperlink})

	status.EXPECT().Status(gomock.Any(), "j1").Return(jobs.StatusFinished, nil)
	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg store.Message) error {
			if !strings.Contains(msg.Context, `Hyperlink "https://example.com" indexed successfully`) {
				t.Errorf("message context = %q, want hyperlink success text", msg.Context)
			}
			return nil
		})

	tr.Sweep(context.Background())
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}

func TestTrackerSweepFailedPromptPostsApology(t *testing.T) {
	tr, status, messages, _ := testTracker(t)
	tr.Register(Ticket{JobID: "j1", ConversationID: "c1", Kind: KindPrompt})

	status.EXPECT().Status(gomock.Any(), "j1").Return(jobs.StatusFailed, nil)
	messages.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg store.Message) error {
			if msg.Context != "⚠️ Bot could not respond at this time." {
				t.Errorf("message context = %q, want bot apology", msg.Context)
			}
			if msg.Sender != store.SenderBot {
				t.Errorf("message sender = %s, want bot", msg.Sender)
			}
			return nil
		})

	tr.Sweep(context.Background())
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}

// A finished prompt job already delivered its reply through the worker, so
// settlement only drops the ticket.
func TestTrackerSweepFinishedPromptPostsNothing(t *testing.T) {
	tr, status, _, _ := testTracker(t)
	tr.Register(Ticket{JobID: "j1", ConversationID: "c1", Kind: KindPrompt})

	status.EXPECT().Status(gomock.Any(), "j1").Return(jobs.StatusFinished, nil)

	tr.Sweep(context.Background())
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}

func TestTrackerSweepKeepsUnsettledTickets(t *testing.T) {
	tests := []struct {
		name   string
		status string
		err    error
	}{
		{name: "still queued", status: jobs.StatusQueued},
		{name: "still active", status: jobs.StatusActive},
		{name: "poll error", err: errors.New("redis down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, status, _, _ := testTracker(t)
			tr.Register(Ticket{JobID: "j1", ConversationID: "c1", ItemID: "d1", Kind: KindFile})

			status.EXPECT().Status(gomock.Any(), "j1").Return(tt.status, tt.err)

			tr.Sweep(context.Background())
			if tr.Pending() != 1 {
				t.Errorf("Pending() = %d, want 1", tr.Pending())
			}
		})
	}
}

func TestTrackerRegisterIgnoresEmptyJobID(t *testing.T) {
	tr, _, _, _ := testTracker(t)
	tr.Register(Ticket{ConversationID: "c1", ItemID: "d1"})
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}

// Settlement removes the file record first and the bytes second; a remover
// error must not stop the settlement message.
func TestTrackerSweepFailedRemoveErrorStillPostsMessage(t *testing.T) {
	tr, status, messages, remover := testTracker(t)
	tr.Register(Ticket{JobID: "j1", ConversationID: "c1", ItemID: "d1", Label: "report.pdf", Kind: KindFile})

	status.EXPECT().Status(gomock.Any(), "j1").Return(jobs.StatusFailed, nil)
	remover.EXPECT().RemoveFile(gomock.Any(), "c1", "d1").Return(errors.New("record store unavailable"))
	messages.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	tr.Sweep(context.Background())
	if tr.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", tr.Pending())
	}
}
