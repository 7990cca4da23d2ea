package triage

import (
	"strings"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

// Annotated reports whether the document carries an auto-generated summary.
// An empty summary means the annotation prompt has not run for it yet.
func Annotated(doc domain.Document) bool {
	return strings.TrimSpace(doc.Summary) != ""
}

// HasVerdict reports whether the verdict marker appears in the document's
// summary or notes. The match is exact substring containment, no case
// folding and no trimming.
func HasVerdict(doc domain.Document, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(doc.Summary, marker) || strings.Contains(doc.Notes, marker)
}
