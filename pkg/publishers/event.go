package publishers

import (
	"time"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

// Event represents the payload published downstream when a document earns
// its promotion.
type Event struct {
	DocumentID string          `json:"document_id"`
	Location   string          `json:"location"`
	Title      string          `json:"title"`
	URL        string          `json:"url"`
	Document   domain.Document `json:"document"`
	PromotedAt time.Time       `json:"promoted_at"`
}

// NewEvent constructs an Event for the promoted document.
func NewEvent(doc domain.Document, location string) Event {
	url := doc.SourceURL
	if url == "" {
		url = doc.URL
	}
	return Event{
		DocumentID: doc.ID,
		Location:   location,
		Title:      doc.Title,
		URL:        url,
		Document:   doc,
		PromotedAt: time.Now().UTC(),
	}
}
