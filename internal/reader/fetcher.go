package reader

import (
	"context"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
)

// pageIter walks the /list/ pages for one location in server order. It is
// single use: once exhausted, Next keeps reporting done.
type pageIter struct {
	client   *Client
	location string
	cursor   string
	done     bool
}

func (c *Client) pages(location string) *pageIter {
	return &pageIter{client: c, location: location}
}

// Next fetches the next page. ok is false once the listing is exhausted.
func (it *pageIter) Next(ctx context.Context) (docs []domain.Document, ok bool, err error) {
	if it.done {
		return nil, false, nil
	}

	page, err := it.client.listDocuments(ctx, it.location, it.cursor)
	if err != nil {
		it.done = true
		return nil, false, err
	}

	it.cursor = page.NextPageCursor
	if it.cursor == "" {
		it.done = true
	}
	return page.Results, true, nil
}

// More reports whether another page remains after the last Next.
func (it *pageIter) More() bool { return !it.done }

// FetchPartition lists the documents currently in the given location,
// preserving server order and dropping highlight and note rows. When
// maxCount is positive, paging stops as soon as that many documents have
// been collected; the page already fetched is returned in full.
func (c *Client) FetchPartition(ctx context.Context, location string, maxCount int) ([]domain.Document, error) {
	it := c.pages(location)

	var (
		out   []domain.Document
		pages int
	)
	for {
		docs, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		pages++

		for _, d := range docs {
			if domain.IsAnnotationArtifact(d.Category) {
				continue
			}
			out = append(out, d)
		}

		c.log.DebugObj("fetched document page", "page", map[string]any{
			"location": location,
			"page":     pages,
			"results":  len(docs),
		})

		if maxCount > 0 && len(out) >= maxCount {
			break
		}
		if c.delay > 0 && it.More() {
			if err := c.sleep(ctx, c.delay); err != nil {
				return nil, err
			}
		}
	}

	c.log.InfoObj("partition listed", "list_result", map[string]any{
		"location":  location,
		"documents": len(out),
		"pages":     pages,
	})
	return out, nil
}
