package triage

import (
	"strings"
	"testing"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

func TestAnnotated(t *testing.T) {
	if Annotated(domain.Document{}) {
		t.Error("empty summary should not count as annotated")
	}
	if Annotated(domain.Document{Summary: "   "}) {
		t.Error("whitespace summary should not count as annotated")
	}
	if !Annotated(domain.Document{Summary: "A short overview."}) {
		t.Error("non-empty summary should count as annotated")
	}
}

func TestHasVerdict(t *testing.T) {
	cases := []struct {
		name    string
		doc     domain.Document
		marker  string
		verdict bool
	}{
		{
			name:    "marker in summary",
			doc:     domain.Document{Summary: "Dense but rewarding. " + testMarker},
			marker:  testMarker,
			verdict: true,
		},
		{
			name:    "marker in notes",
			doc:     domain.Document{Summary: "Summary only.", Notes: testMarker + " revisit for the appendix"},
			marker:  testMarker,
			verdict: true,
		},
		{
			name:    "near miss without emoji",
			doc:     domain.Document{Summary: "READ this maybe"},
			marker:  testMarker,
			verdict: false,
		},
		{
			name:    "case matters",
			doc:     domain.Document{Summary: strings.ToLower(testMarker)},
			marker:  testMarker,
			verdict: false,
		},
		{
			name:    "empty marker never matches",
			doc:     domain.Document{Summary: "anything"},
			marker:  "",
			verdict: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasVerdict(tc.doc, tc.marker); got != tc.verdict {
				t.Errorf("HasVerdict = %v, want %v", got, tc.verdict)
			}
		})
	}
}

func TestDisplayTitleFallbacks(t *testing.T) {
	if got := displayTitle(domain.Document{Title: " Spaced "}); got != "Spaced" {
		t.Errorf("expected trimmed title, got %q", got)
	}
	if got := displayTitle(domain.Document{SourceURL: "https://a", URL: "https://b"}); got != "https://a" {
		t.Errorf("expected source url, got %q", got)
	}
	if got := displayTitle(domain.Document{URL: "https://b"}); got != "https://b" {
		t.Errorf("expected url, got %q", got)
	}
	if got := displayTitle(domain.Document{}); got != "(untitled)" {
		t.Errorf("expected placeholder, got %q", got)
	}
}
