package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
	"github.com/lectern-hq/lectern-reader-agent/internal/logger"
)

// Sweeper relocates everything in the promotion target to the archive,
// clearing that partition before new promotions land. No classification and
// no cache interaction, just bulk moves under the usual throttle.
type Sweeper struct {
	source DocumentSource
	mover  DocumentMover
	opts   Options
	log    logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewSweeper wires a sweeper over the given source and mover.
func NewSweeper(source DocumentSource, mover DocumentMover, opts Options, log logger.Logger) *Sweeper {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Sweeper{
		source: source,
		mover:  mover,
		opts:   opts,
		log:    log,
		sleep:  sleepContext,
	}
}

// Run archives every document currently in the promotion target.
func (s *Sweeper) Run(ctx context.Context, stats *RunStats) error {
	docs, err := s.source.FetchPartition(ctx, s.opts.PromoteTo, 0)
	if err != nil {
		return fmt.Errorf("fetch %s partition: %w", s.opts.PromoteTo, err)
	}

	for _, doc := range docs {
		if s.opts.DryRun {
			stats.Archived++
			s.log.InfoObj("dry run: would archive document", "archive", map[string]any{
				"document_id": doc.ID,
				"title":       displayTitle(doc),
			})
			continue
		}

		if s.opts.RequestDelay > 0 {
			if err := s.sleep(ctx, s.opts.RequestDelay); err != nil {
				return err
			}
		}
		if err := s.mover.UpdateLocation(ctx, doc.ID, domain.LocationArchive); err != nil {
			return fmt.Errorf("archive document %s: %w", doc.ID, err)
		}
		stats.Archived++
	}

	if len(docs) > 0 {
		s.log.InfoObj("swept promotion target", "sweep_result", map[string]any{
			"location": s.opts.PromoteTo,
			"archived": stats.Archived,
			"dry_run":  s.opts.DryRun,
		})
	}
	return nil
}
