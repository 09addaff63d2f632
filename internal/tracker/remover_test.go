package tracker

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"docuchat/internal/store"
	"docuchat/internal/uploads"
)

func TestRemoverRemoveFile(t *testing.T) {
	ctx := context.Background()
	records := store.NewCSVStore(t.TempDir())
	files := store.NewFileRepo(records)
	binaries := uploads.NewStore(t.TempDir())

	if err := files.AppendAll(ctx, "c1", []store.HistoryFile{{ID: "d1", OriginalName: "a.pdf"}}); err != nil {
		t.Fatalf("AppendAll() error = %v", err)
	}
	if _, err := binaries.Save("d1", strings.NewReader("pdf bytes")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r := NewRemover(files, store.NewHyperlinkRepo(records), binaries)
	if err := r.RemoveFile(ctx, "c1", "d1"); err != nil {
		t.Fatalf("RemoveFile() error = %v", err)
	}

	got, err := files.FindAll(ctx, "c1")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindAll() = %v, want empty", got)
	}
	if _, err := os.Stat(binaries.Path("d1")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat() error = %v, want not exist", err)
	}
}

func TestRemoverRemoveHyperlink(t *testing.T) {
	ctx := context.Background()
	records := store.NewCSVStore(t.TempDir())
	hyperlinks := store.NewHyperlinkRepo(records)

	if err := hyperlinks.Append(ctx, store.HistoryHyperlink{ID: "h1", ConversationID: "c1", Link: "https://example.com"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	r := NewRemover(store.NewFileRepo(records), hyperlinks, uploads.NewStore(t.TempDir()))
	if err := r.RemoveHyperlink(ctx, "c1", "h1"); err != nil {
		t.Fatalf("RemoveHyperlink() error = %v", err)
	}

	got, err := hyperlinks.FindAll(ctx, "c1")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindAll() = %v, want empty", got)
	}
}
