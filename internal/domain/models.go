package domain

import "time"

// Domain contains core models shared across the agent.

// Known Reader locations. A document lives in exactly one of these
// partitions at any time.
const (
	LocationNew       = "new"
	LocationLater     = "later"
	LocationShortlist = "shortlist"
	LocationArchive   = "archive"
	LocationFeed      = "feed"
)

// Reader categories that mark annotation artifacts rather than top-level
// documents. The list endpoint interleaves them with their parents.
const (
	CategoryHighlight = "highlight"
	CategoryNote      = "note"
)

// Document is a single entry in the user's Reader collection. The remote
// service owns it entirely; the agent reads it and patches the location
// field only.
type Document struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	SourceURL string    `json:"source_url"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	Summary   string    `json:"summary"`
	Notes     string    `json:"notes"`
	ParentID  string    `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAnnotationArtifact reports whether the category marks a child record
// (highlight or note) instead of a document.
func IsAnnotationArtifact(category string) bool {
	return category == CategoryHighlight || category == CategoryNote
}

// SavedAt returns the timestamp used for age filtering: creation time,
// falling back to the update time when the server omitted it.
func (d Document) SavedAt() time.Time {
	if !d.CreatedAt.IsZero() {
		return d.CreatedAt
	}
	return d.UpdatedAt
}

// ValidLocation reports whether loc is one of the Reader partitions.
func ValidLocation(loc string) bool {
	switch loc {
	case LocationNew, LocationLater, LocationShortlist, LocationArchive, LocationFeed:
		return true
	}
	return false
}
