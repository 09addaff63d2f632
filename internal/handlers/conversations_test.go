package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"docuchat/internal/store"
)

func newConversationRouter(t *testing.T, s testStores, submitter *stubSubmitter, indexes *stubIndexRemover) (chi.Router, *stubRegistrar) {
	t.Helper()
	registrar := &stubRegistrar{}
	h := NewConversationHandler(s.conversations, s.messages, s.files, s.hyperlinks, newTestMigrator(t, s, submitter, registrar), s.binaries, indexes)

	r := chi.NewRouter()
	r.Post("/api/chat-history", h.Create)
	r.Get("/api/chat-history", h.List)
	r.Delete("/api/chat-history/{conversationId}", h.Delete)
	r.Patch("/api/conversations/{conversationId}", h.Rename)
	return r, registrar
}

func TestConversationCreateMigratesHoldingArea(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	submitter := &stubSubmitter{}
	router, registrar := newConversationRouter(t, s, submitter, &stubIndexRemover{})

	if err := s.temporary.AppendDoc(ctx, store.TemporaryDoc{ID: "d1", OriginalName: "report.pdf"}); err != nil {
		t.Fatalf("AppendDoc() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat-history", strings.NewReader(`{"id": "c1", "topicModel": "FASTopic", "language": "en"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp CreateConversationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.ID != "c1" || resp.ConversationName != store.DefaultConversationName {
		t.Errorf("response = %+v, want c1 with default name", resp.Conversation)
	}
	if resp.MigratedDocs != 1 {
		t.Errorf("migratedDocs = %d, want 1", resp.MigratedDocs)
	}

	has, err := s.messages.HasHistory(ctx, "c1")
	if err != nil {
		t.Fatalf("HasHistory() error = %v", err)
	}
	if !has {
		t.Error("chat history was not created")
	}

	docs, err := s.temporary.FindAllDocs(ctx)
	if err != nil {
		t.Fatalf("FindAllDocs() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("temp docs after create = %v, want empty", docs)
	}
	if len(registrar.tickets) != 1 {
		t.Errorf("registered %d tickets, want 1", len(registrar.tickets))
	}
}

func TestConversationListColdLedgerIsEmpty(t *testing.T) {
	router, _ := newConversationRouter(t, newTestStores(t), &stubSubmitter{}, &stubIndexRemover{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat-history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestConversationDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	indexes := &stubIndexRemover{}
	router, _ := newConversationRouter(t, s, &stubSubmitter{}, indexes)

	if err := s.conversations.Create(ctx, store.Conversation{ID: "c1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.messages.CreateHistory(ctx, "c1"); err != nil {
		t.Fatalf("CreateHistory() error = %v", err)
	}
	if err := s.files.AppendAll(ctx, "c1", []store.HistoryFile{{ID: "d1"}}); err != nil {
		t.Fatalf("AppendAll() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/chat-history/c1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	all, err := s.conversations.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("ledger = %v, want empty", all)
	}
	has, err := s.messages.HasHistory(ctx, "c1")
	if err != nil {
		t.Fatalf("HasHistory() error = %v", err)
	}
	if has {
		t.Error("chat history still exists after delete")
	}
	if len(indexes.removed) != 1 || indexes.removed[0] != (removal{ConversationID: "c1"}) {
		t.Errorf("index removals = %v, want the whole conversation", indexes.removed)
	}
}

func TestConversationDeleteNotFound(t *testing.T) {
	router, _ := newConversationRouter(t, newTestStores(t), &stubSubmitter{}, &stubIndexRemover{})

	req := httptest.NewRequest(http.MethodDelete, "/api/chat-history/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestConversationRename(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	router, _ := newConversationRouter(t, s, &stubSubmitter{}, &stubIndexRemover{})

	if err := s.conversations.Create(ctx, store.Conversation{ID: "c1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
	}{
		{name: "renames", target: "c1", body: `{"conversationName": "Trip planning"}`, wantStatus: http.StatusOK},
		{name: "missing name", target: "c1", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "unknown id", target: "nope", body: `{"conversationName": "x"}`, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/conversations/"+tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	all, err := s.conversations.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 1 || all[0].ConversationName != "Trip planning" {
		t.Errorf("ledger = %v, want c1 renamed", all)
	}
}
