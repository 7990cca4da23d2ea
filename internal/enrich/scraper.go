package enrich

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lectern-hq/lectern-reader-agent/internal/logger"
	"github.com/lectern-hq/lectern-reader-agent/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB

	defaultFetchTimeout = 15 * time.Second
)

// Scraper fetches pages and pulls a display title out of their OG tags.
// The list endpoint sometimes serves documents before the backend filled in
// a title; the scraper closes that gap for report lines.
type Scraper struct {
	client httpclient.Client
	log    logger.Logger
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
func NewScraper(client httpclient.Client, log logger.Logger) *Scraper {
	if client == nil {
		client = httpclient.NewRestyClient(defaultFetchTimeout)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scraper{client: client, log: log}
}

// ResolveTitle fetches the page and returns its og:title, falling back to
// the title element. An empty string with nil error means the page carries
// neither.
func (s *Scraper) ResolveTitle(ctx context.Context, url string) (string, error) {
	resp, err := s.client.Get(ctx, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("page returned status %d body: %s", resp.StatusCode(), httpclient.Snippet(body))
	}
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	title, err := parseTitle(body)
	if err != nil {
		return "", err
	}

	s.log.DebugObj("resolved page title", "title_result", map[string]any{
		"url":   url,
		"title": title,
	})
	return title, nil
}

func parseTitle(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	if node := doc.Find(`meta[property="og:title"]`).First(); node.Length() > 0 {
		if val, ok := node.Attr("content"); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val), nil
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}
