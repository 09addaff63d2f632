package store

import (
	"context"
	"reflect"
	"testing"
)

func newTestRepoBase(t *testing.T) RecordStore {
	t.Helper()
	return NewCSVStore(t.TempDir())
}

func TestConversationRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepo(newTestRepoBase(t))

	c1 := Conversation{ID: "c1", CreatedTime: "2024-01-01T00:00:00Z"}
	c2 := Conversation{ID: "c2", ConversationName: "Named", CreatedTime: "2024-01-02T00:00:00Z"}
	if err := repo.Create(ctx, c1); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, c2); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("FindAll() returned %d conversations, want 2", len(all))
	}
	if all[0].ConversationName != DefaultConversationName {
		t.Errorf("conversation without name = %q, want %q", all[0].ConversationName, DefaultConversationName)
	}

	renamed, err := repo.Rename(ctx, "c1", "Trip planning")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if !renamed {
		t.Error("Rename() = false, want true")
	}

	removed, err := repo.Remove(ctx, "c2")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !removed {
		t.Error("Remove() = false, want true")
	}

	all, err = repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	want := []Conversation{{ID: "c1", ConversationName: "Trip planning", CreatedTime: "2024-01-01T00:00:00Z"}}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("FindAll() = %v, want %v", all, want)
	}
}

func TestMessageRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestRepoBase(t))

	if err := repo.CreateHistory(ctx, "c1"); err != nil {
		t.Fatalf("CreateHistory() error = %v", err)
	}

	msg := Message{
		ID:             "m1",
		ConversationID: "c1",
		ClientID:       "client-1",
		Context:        "hello, with a comma",
		Sender:         SenderClient,
		CreatedTime:    "2024-01-01T00:00:00Z",
	}
	if err := repo.Append(ctx, msg); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	messages, err := repo.FindAll(ctx, "c1")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(messages) != 1 || !reflect.DeepEqual(messages[0], msg) {
		t.Errorf("FindAll() = %v, want [%v]", messages, msg)
	}

	has, err := repo.HasHistory(ctx, "c1")
	if err != nil {
		t.Fatalf("HasHistory() error = %v", err)
	}
	if !has {
		t.Error("HasHistory() = false, want true")
	}

	if err := repo.DropHistory(ctx, "c1"); err != nil {
		t.Fatalf("DropHistory() error = %v", err)
	}
	has, err = repo.HasHistory(ctx, "c1")
	if err != nil {
		t.Fatalf("HasHistory() error = %v", err)
	}
	if has {
		t.Error("HasHistory() = true after DropHistory()")
	}
}

func TestMessageRepoAppendWithoutHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestRepoBase(t))

	err := repo.Append(ctx, Message{ID: "m1", ConversationID: "never-created"})
	if err == nil {
		t.Fatal("Append() expected error for missing history")
	}
}

func TestFileRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewFileRepo(newTestRepoBase(t))

	files := []HistoryFile{
		{ID: "d1", OriginalName: "a.pdf", PathName: "/uploads/d1", Type: "application/pdf", Size: "100", CreatedTime: "2024-01-01T00:00:00Z"},
		{ID: "d2", OriginalName: "b.pdf", PathName: "/uploads/d2", Type: "application/pdf", Size: "200", CreatedTime: "2024-01-01T00:00:00Z"},
	}
	if err := repo.AppendAll(ctx, "c1", files); err != nil {
		t.Fatalf("AppendAll() error = %v", err)
	}

	got, err := repo.FindAll(ctx, "c1")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FindAll() returned %d files, want 2", len(got))
	}
	// AppendAll stamps the owning conversation
	if got[0].ConversationID != "c1" || got[1].ConversationID != "c1" {
		t.Errorf("FindAll() conversation ids = %q, %q, want c1", got[0].ConversationID, got[1].ConversationID)
	}

	removed, err := repo.Remove(ctx, "c1", "d1")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !removed {
		t.Error("Remove() = false, want true")
	}
	removed, err = repo.Remove(ctx, "c1", "d1")
	if err != nil {
		t.Fatalf("Remove() second call error = %v", err)
	}
	if removed {
		t.Error("Remove() second call = true, want false")
	}
}

func TestHyperlinkRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewHyperlinkRepo(newTestRepoBase(t))

	link := HistoryHyperlink{
		ID:             "h1",
		ConversationID: "c1",
		Title:          "Example",
		Link:           "https://example.com",
		CreatedTime:    "2024-01-01T00:00:00Z",
	}
	if err := repo.Append(ctx, link); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := repo.FindAll(ctx, "c1")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0], link) {
		t.Errorf("FindAll() = %v, want [%v]", got, link)
	}

	removed, err := repo.Remove(ctx, "c1", "h1")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !removed {
		t.Error("Remove() = false, want true")
	}
}

func TestTemporaryRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewTemporaryRepo(newTestRepoBase(t))

	// Cold store lists are empty, not errors
	docs, err := repo.FindAllDocs(ctx)
	if err != nil {
		t.Fatalf("FindAllDocs() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("FindAllDocs() on cold store = %v, want empty", docs)
	}

	doc := TemporaryDoc{ID: "t1", OriginalName: "a.pdf", PathName: "/uploads/t1", Type: "application/pdf", Size: "100", CreatedTime: "2024-01-01T00:00:00Z"}
	if err := repo.AppendDoc(ctx, doc); err != nil {
		t.Fatalf("AppendDoc() error = %v", err)
	}

	hyperlink := TemporaryHyperlink{ID: "h1", Title: "Example", Link: "https://example.com", CreatedTime: "2024-01-01T00:00:00Z"}
	if err := repo.AppendHyperlink(ctx, hyperlink); err != nil {
		t.Fatalf("AppendHyperlink() error = %v", err)
	}

	docs, err = repo.FindAllDocs(ctx)
	if err != nil {
		t.Fatalf("FindAllDocs() error = %v", err)
	}
	if len(docs) != 1 || !reflect.DeepEqual(docs[0], doc) {
		t.Errorf("FindAllDocs() = %v, want [%v]", docs, doc)
	}

	hyperlinks, err := repo.FindAllHyperlinks(ctx)
	if err != nil {
		t.Fatalf("FindAllHyperlinks() error = %v", err)
	}
	if len(hyperlinks) != 1 || !reflect.DeepEqual(hyperlinks[0], hyperlink) {
		t.Errorf("FindAllHyperlinks() = %v, want [%v]", hyperlinks, hyperlink)
	}

	removed, err := repo.RemoveDoc(ctx, "t1")
	if err != nil {
		t.Fatalf("RemoveDoc() error = %v", err)
	}
	if !removed {
		t.Error("RemoveDoc() = false, want true")
	}
	removed, err = repo.RemoveHyperlink(ctx, "h1")
	if err != nil {
		t.Fatalf("RemoveHyperlink() error = %v", err)
	}
	if !removed {
		t.Error("RemoveHyperlink() = false, want true")
	}
}

func TestJobLogRepo(t *testing.T) {
	ctx := context.Background()
	base := newTestRepoBase(t)
	repo := NewJobLogRepo(base)

	record := JobRecord{
		ID:        "j1",
		Queue:     "index-data-queue",
		Action:    "indexDataJob",
		Payload:   `{"chatID":"c1"}`,
		CreatedAt: "2024-01-01T00:00:00Z",
	}
	if err := repo.Append(ctx, record); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	rows, err := base.FindAll(ctx, DirJobs, "jobs")
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	want := [][]string{{"j1", "index-data-queue", "indexDataJob", `{"chatID":"c1"}`, "2024-01-01T00:00:00Z"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("FindAll() = %v, want %v", rows, want)
	}
}
