// Package crawler fetches a web page and extracts its title, used to label
// hyperlinks before they are indexed.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ErrNoTitle is returned when the page has no usable title element.
var ErrNoTitle = errors.New("page has no title")

// maxBodySize caps how much of a page is read while looking for the title.
const maxBodySize = 1 << 20

// Crawler fetches page titles.
type Crawler struct {
	client *http.Client
}

// New creates a new Crawler.
func New() *Crawler {
	return &Crawler{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Title fetches the page and returns the text of its first title element.
func (c *Crawler) Title(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", pageURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch of %s returned status %d", pageURL, resp.StatusCode)
	}

	title, err := extractTitle(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return title, nil
}

func extractTitle(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			var b strings.Builder
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == html.TextNode {
					b.WriteString(child.Data)
				}
			}
			title = strings.TrimSpace(b.String())
			return true
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(doc)

	if title == "" {
		return "", ErrNoTitle
	}
	return title, nil
}
