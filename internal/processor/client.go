// Package processor is the HTTP client for the external indexing/LLM service.
// The service owns the vector store, topic models, and chat generation; this
// system only submits work and reads results over HTTP.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrExternalService is returned when the processor call fails or times out.
var ErrExternalService = errors.New("external service error")

// Client is a client for the external indexing/LLM processor API.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new processor client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			// Index submissions upload whole PDFs; keep this generous.
			Timeout: 120 * time.Second,
		},
	}
}

// IndexRequest describes one unit of indexing work.
type IndexRequest struct {
	ChatID         string
	DocID          string
	URL            string
	FilePath       string
	TopicModel     string
	Language       string
	NumberOfTopics int
}

// indexResponse is the processor's reply to an index submission.
type indexResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// IndexPDF submits a document or hyperlink to the processor's own queue and
// returns the processor's job identifier. This is the direct submission path;
// its jobs are polled with Status.
func (c *Client) IndexPDF(ctx context.Context, req IndexRequest) (string, error) {
	return c.submitIndex(ctx, "/index-pdf", req)
}

// IndexData submits a document or hyperlink on the priority endpoint. The
// local queue worker uses this path and treats a successful response as
// completion.
func (c *Client) IndexData(ctx context.Context, req IndexRequest) (string, error) {
	return c.submitIndex(ctx, "/index-data-priority", req)
}

func (c *Client) submitIndex(ctx context.Context, path string, req IndexRequest) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"chatID":           req.ChatID,
		"docID":            req.DocID,
		"url":              req.URL,
		"is_base64":        "false",
		"number_of_topics": strconv.Itoa(req.NumberOfTopics),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if req.FilePath != "" {
		f, err := os.Open(req.FilePath)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", req.FilePath, err)
		}
		part, err := w.CreateFormFile("file", filepath.Base(req.FilePath))
		if err != nil {
			_ = f.Close()
			return "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("failed to copy %s into form: %w", req.FilePath, err)
		}
		_ = f.Close()
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?%s", c.BaseURL, path, url.Values{
		"topic_model": {req.TopicModel},
		"language":    {req.Language},
	}.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	var resp indexResponse
	if err := c.do(httpReq, &resp); err != nil {
		return "", err
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("index submission returned no job id: %w", ErrExternalService)
	}
	return resp.JobID, nil
}

// ChatResponse asks the processor for the LLM reply to one message.
func (c *Client) ChatResponse(ctx context.Context, chatID, message, llm, language string) (string, error) {
	endpoint := fmt.Sprintf("%s/get_response?%s", c.BaseURL, url.Values{
		"chatID":   {chatID},
		"message":  {message},
		"llm":      {llm},
		"language": {language},
	}.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var resp struct {
		Response string `json:"response"`
	}
	if err := c.do(httpReq, &resp); err != nil {
		return "", err
	}
	if resp.Response == "" {
		return "", fmt.Errorf("chat response was empty: %w", ErrExternalService)
	}
	return resp.Response, nil
}

// ConversationName asks the processor to generate a short conversation title
// from the opening message.
func (c *Client) ConversationName(ctx context.Context, message string) (string, error) {
	endpoint := fmt.Sprintf("%s/get-conversation-name?%s", c.BaseURL, url.Values{
		"message": {message},
	}.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var resp struct {
		ConversationName string `json:"conversation_name"`
	}
	if err := c.do(httpReq, &resp); err != nil {
		return "", err
	}
	if resp.ConversationName == "" {
		return "", fmt.Errorf("conversation name was empty: %w", ErrExternalService)
	}
	return resp.ConversationName, nil
}

// Status returns the processor-side state of an indexing job.
func (c *Client) Status(ctx context.Context, jobID string) (string, error) {
	endpoint := fmt.Sprintf("%s/index-pdf-status?%s", c.BaseURL, url.Values{
		"job_id": {jobID},
	}.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(httpReq, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// RemoveDocument tells the processor to drop a chat's indexed data, or one
// document of it when documentID is set.
func (c *Client) RemoveDocument(ctx context.Context, chatID, documentID string) error {
	values := url.Values{"chat_id": {chatID}}
	if documentID != "" {
		values.Set("document_id", documentID)
	}
	endpoint := fmt.Sprintf("%s/remove-document?%s", c.BaseURL, values.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	var resp struct {
		Status string `json:"status"`
	}
	return c.do(httpReq, &resp)
}

// do executes the request and decodes a JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("processor request failed: %w: %v", ErrExternalService, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("processor returned status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(body)), ErrExternalService)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode processor response: %w", err)
	}
	return nil
}
