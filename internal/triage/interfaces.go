package triage

import (
	"context"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

// DocumentSource lists the documents currently in a Reader partition.
type DocumentSource interface {
	FetchPartition(ctx context.Context, location string, maxCount int) ([]domain.Document, error)
}

// DocumentMover changes the partition a document lives in.
type DocumentMover interface {
	UpdateLocation(ctx context.Context, id, location string) error
}

// TitleResolver looks up a page title for documents the API returned
// without one.
type TitleResolver interface {
	ResolveTitle(ctx context.Context, url string) (string, error)
}
