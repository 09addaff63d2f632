package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"docuchat/internal/store"
)

// ExportHandler renders a conversation transcript as an HTML page. Bot
// messages are markdown; client messages are plain text.
type ExportHandler struct {
	conversations store.ConversationStore
	messages      store.MessageStore
	parser        goldmark.Markdown
	template      *template.Template
}

// transcriptData holds template data for rendered transcripts.
type transcriptData struct {
	Title    string
	Created  string
	Messages []transcriptMessage
}

type transcriptMessage struct {
	Sender  string
	Time    string
	Content template.HTML
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(conversations store.ConversationStore, messages store.MessageStore) *ExportHandler {
	tmpl := template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 800px;
      line-height: 1.6;
      color: #1e293b;
    }
    header {
      border-bottom: 1px solid #e2e8f0;
      margin-bottom: 1.5rem;
      padding-bottom: 1rem;
    }
    .meta {
      color: #64748b;
      font-size: 0.9rem;
    }
    .message {
      margin-bottom: 1rem;
      padding: 0.75rem 1rem;
      border-radius: 10px;
    }
    .message.client {
      background: #eff6ff;
    }
    .message.bot {
      background: #f8fafc;
      border: 1px solid #e2e8f0;
    }
    .sender {
      font-weight: 600;
      font-size: 0.85rem;
      color: #475569;
    }
    pre {
      background: #0f172a;
      color: #e2e8f0;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 8px;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Started {{.Created}}</p>
  </header>
  {{range .Messages}}<div class="message {{.Sender}}">
    <div class="sender">{{.Sender}} &middot; {{.Time}}</div>
    <div>{{.Content}}</div>
  </div>
  {{end}}
</body>
</html>`))

	return &ExportHandler{
		conversations: conversations,
		messages:      messages,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Strikethrough,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
			),
		),
		template: tmpl,
	}
}

// Export renders the conversation's transcript.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)
	conversationID := chi.URLParam(r, "conversationId")

	has, err := h.messages.HasHistory(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to check chat history")
		return
	}
	if !has {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	title := store.DefaultConversationName
	created := ""
	all, err := h.conversations.FindAll(ctx)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to read conversation ledger")
		return
	}
	for _, c := range all {
		if c.ID == conversationID {
			title = c.ConversationName
			created = c.CreatedTime
			break
		}
	}

	messages, err := h.messages.FindAll(ctx, conversationID)
	if err != nil {
		handleStoreError(w, ctx, logger, err, "Failed to read chat history")
		return
	}

	data := transcriptData{Title: title, Created: created}
	for _, m := range messages {
		content, err := h.renderContent(m)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render message", "messageId", m.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render transcript")
			return
		}
		data.Messages = append(data.Messages, transcriptMessage{
			Sender:  m.Sender,
			Time:    m.CreatedTime,
			Content: content,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute transcript template", "conversationId", conversationID, "error", err)
	}
}

// renderContent converts bot markdown to HTML and escapes client text.
func (h *ExportHandler) renderContent(m store.Message) (template.HTML, error) {
	if m.Sender != store.SenderBot {
		return template.HTML(template.HTMLEscapeString(m.Context)), nil
	}
	var buf bytes.Buffer
	if err := h.parser.Convert([]byte(m.Context), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
