package enrich

import (
	"bytes"
	"context"
	"testing"

	"github.com/lectern-hq/lectern-reader-agent/pkg/httpclient"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

// stubHTTPClient returns a single response.
type stubHTTPClient struct {
	resp httpclient.Response
}

func (s stubHTTPClient) Get(_ context.Context, _ string, _ map[string]string) (httpclient.Response, error) {
	return s.resp, nil
}

func TestResolveTitlePrefersOGTag(t *testing.T) {
	html := []byte(`
<html>
  <head>
    <title>Fallback</title>
    <meta property="og:title" content="OG Title">
  </head>
</html>`)

	s := NewScraper(stubHTTPClient{resp: stubHTTPResponse{body: html, statusCode: 200}}, nil)
	title, err := s.ResolveTitle(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("ResolveTitle: %v", err)
	}
	if title != "OG Title" {
		t.Fatalf("expected OG title, got %q", title)
	}
}

func TestResolveTitleFallsBackToTitleElement(t *testing.T) {
	html := []byte(`<html><head><title>  Plain Title </title></head></html>`)

	s := NewScraper(stubHTTPClient{resp: stubHTTPResponse{body: html, statusCode: 200}}, nil)
	title, err := s.ResolveTitle(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("ResolveTitle: %v", err)
	}
	if title != "Plain Title" {
		t.Fatalf("expected trimmed title element, got %q", title)
	}
}

func TestResolveTitleRejectsNon200(t *testing.T) {
	s := NewScraper(stubHTTPClient{resp: stubHTTPResponse{body: []byte("gone"), statusCode: 404}}, nil)
	if _, err := s.ResolveTitle(context.Background(), "https://example.com/a"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestResolveTitleCapsHugeBodies(t *testing.T) {
	body := bytes.Repeat([]byte("a"), maxHTMLBodyBytes+10)

	s := NewScraper(stubHTTPClient{resp: stubHTTPResponse{body: body, statusCode: 200}}, nil)
	title, err := s.ResolveTitle(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("ResolveTitle: %v", err)
	}
	if title != "" {
		t.Fatalf("expected empty title for metadata-free body, got %q", title)
	}
}
