package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"docuchat/internal/crawler"
)

// CrawlerHandler fetches page titles for hyperlinks before they are attached.
type CrawlerHandler struct {
	crawler *crawler.Crawler
}

// NewCrawlerHandler creates a new CrawlerHandler.
func NewCrawlerHandler(c *crawler.Crawler) *CrawlerHandler {
	return &CrawlerHandler{crawler: c}
}

// Title fetches the page behind ?url= and returns its title.
func (h *CrawlerHandler) Title(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := getLogger(ctx)

	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if parsed, err := url.Parse(pageURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		writeError(w, http.StatusBadRequest, "url must be absolute")
		return
	}

	title, err := h.crawler.Title(ctx, pageURL)
	if errors.Is(err, crawler.ErrNoTitle) {
		writeError(w, http.StatusNotFound, "Page has no title")
		return
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to fetch page title", "url", pageURL, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to fetch page")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"title": title})
}
