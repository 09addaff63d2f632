package store

// Message senders.
const (
	SenderClient = "client"
	SenderBot    = "bot"
)

// DefaultConversationName is used until the naming job renames a conversation.
const DefaultConversationName = "New conversation"

// Conversation is one row of the shared conversation ledger.
type Conversation struct {
	ID               string `json:"id"`
	ConversationName string `json:"conversationName"`
	CreatedTime      string `json:"createdTime"`
}

// ConversationHeaders is the ledger column order.
var ConversationHeaders = []string{"id", "conversationName", "createdTime"}

func (c Conversation) row() []string {
	return []string{c.ID, c.ConversationName, c.CreatedTime}
}

func conversationFromRow(row []string) Conversation {
	var c Conversation
	if len(row) > 0 {
		c.ID = row[0]
	}
	if len(row) > 1 {
		c.ConversationName = row[1]
	}
	if len(row) > 2 {
		c.CreatedTime = row[2]
	}
	return c
}

// Message is one chat message; messages live one file per conversation.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	ClientID       string `json:"clientId"`
	Context        string `json:"context"`
	Sender         string `json:"sender"`
	CreatedTime    string `json:"createdTime"`
}

// MessageHeaders is the chat-history column order.
var MessageHeaders = []string{"id", "conversationId", "clientId", "context", "sender", "createdTime"}

func (m Message) row() []string {
	return []string{m.ID, m.ConversationID, m.ClientID, m.Context, m.Sender, m.CreatedTime}
}

func messageFromRow(row []string) Message {
	var m Message
	if len(row) > 0 {
		m.ID = row[0]
	}
	if len(row) > 1 {
		m.ConversationID = row[1]
	}
	if len(row) > 2 {
		m.ClientID = row[2]
	}
	if len(row) > 3 {
		m.Context = row[3]
	}
	if len(row) > 4 {
		m.Sender = row[4]
	}
	if len(row) > 5 {
		m.CreatedTime = row[5]
	}
	return m
}

// HistoryFile is one uploaded document attached to a conversation.
type HistoryFile struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	OriginalName   string `json:"originalName"`
	PathName       string `json:"pathName"`
	Type           string `json:"type"`
	Size           string `json:"size"`
	CreatedTime    string `json:"createdTime"`
}

// HistoryFileHeaders is the history-files column order.
var HistoryFileHeaders = []string{"id", "conversationId", "originalName", "pathName", "type", "size", "createdTime"}

func (f HistoryFile) row() []string {
	return []string{f.ID, f.ConversationID, f.OriginalName, f.PathName, f.Type, f.Size, f.CreatedTime}
}

func historyFileFromRow(row []string) HistoryFile {
	var f HistoryFile
	if len(row) > 0 {
		f.ID = row[0]
	}
	if len(row) > 1 {
		f.ConversationID = row[1]
	}
	if len(row) > 2 {
		f.OriginalName = row[2]
	}
	if len(row) > 3 {
		f.PathName = row[3]
	}
	if len(row) > 4 {
		f.Type = row[4]
	}
	if len(row) > 5 {
		f.Size = row[5]
	}
	if len(row) > 6 {
		f.CreatedTime = row[6]
	}
	return f
}

// HistoryHyperlink is one hyperlink attached to a conversation.
type HistoryHyperlink struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Title          string `json:"title"`
	Link           string `json:"link"`
	CreatedTime    string `json:"createdTime"`
}

// HistoryHyperlinkHeaders is the history-hyperlinks column order.
var HistoryHyperlinkHeaders = []string{"id", "conversationId", "title", "link", "createdTime"}

func (h HistoryHyperlink) row() []string {
	return []string{h.ID, h.ConversationID, h.Title, h.Link, h.CreatedTime}
}

func historyHyperlinkFromRow(row []string) HistoryHyperlink {
	var h HistoryHyperlink
	if len(row) > 0 {
		h.ID = row[0]
	}
	if len(row) > 1 {
		h.ConversationID = row[1]
	}
	if len(row) > 2 {
		h.Title = row[2]
	}
	if len(row) > 3 {
		h.Link = row[3]
	}
	if len(row) > 4 {
		h.CreatedTime = row[4]
	}
	return h
}

// TemporaryDoc is an uploaded document not yet attached to any conversation.
type TemporaryDoc struct {
	ID           string `json:"id"`
	OriginalName string `json:"originalName"`
	PathName     string `json:"pathName"`
	Type         string `json:"type"`
	Size         string `json:"size"`
	CreatedTime  string `json:"createdTime"`
}

// TemporaryDocHeaders is the temp-docs column order.
var TemporaryDocHeaders = []string{"id", "originalName", "pathName", "type", "size", "createdTime"}

func (d TemporaryDoc) row() []string {
	return []string{d.ID, d.OriginalName, d.PathName, d.Type, d.Size, d.CreatedTime}
}

func temporaryDocFromRow(row []string) TemporaryDoc {
	var d TemporaryDoc
	if len(row) > 0 {
		d.ID = row[0]
	}
	if len(row) > 1 {
		d.OriginalName = row[1]
	}
	if len(row) > 2 {
		d.PathName = row[2]
	}
	if len(row) > 3 {
		d.Type = row[3]
	}
	if len(row) > 4 {
		d.Size = row[4]
	}
	if len(row) > 5 {
		d.CreatedTime = row[5]
	}
	return d
}

// TemporaryHyperlink is a hyperlink not yet attached to any conversation.
type TemporaryHyperlink struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	CreatedTime string `json:"createdTime"`
}

// TemporaryHyperlinkHeaders is the temp-hyperlinks column order.
var TemporaryHyperlinkHeaders = []string{"id", "title", "link", "createdTime"}

func (h TemporaryHyperlink) row() []string {
	return []string{h.ID, h.Title, h.Link, h.CreatedTime}
}

func temporaryHyperlinkFromRow(row []string) TemporaryHyperlink {
	var h TemporaryHyperlink
	if len(row) > 0 {
		h.ID = row[0]
	}
	if len(row) > 1 {
		h.Title = row[1]
	}
	if len(row) > 2 {
		h.Link = row[2]
	}
	if len(row) > 3 {
		h.CreatedTime = row[3]
	}
	return h
}

// JobRecord is one row of the append-only job audit log.
type JobRecord struct {
	ID        string `json:"id"`
	Queue     string `json:"queue"`
	Action    string `json:"action"`
	Payload   string `json:"payload"`
	CreatedAt string `json:"created_at"`
}

// JobRecordHeaders is the jobs-log column order.
var JobRecordHeaders = []string{"id", "queue", "action", "payload", "created_at"}

func (j JobRecord) row() []string {
	return []string{j.ID, j.Queue, j.Action, j.Payload, j.CreatedAt}
}
