package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lectern-hq/lectern-reader-agent/internal/cache"
	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
	"github.com/lectern-hq/lectern-reader-agent/internal/logger"
)

// Options tune a triage pass.
type Options struct {
	// FeedLocation is the partition new documents arrive in.
	FeedLocation string
	// PromoteTo is the partition documents with a verdict are moved to.
	PromoteTo string
	// Marker is the verdict substring the annotation prompt embeds.
	Marker string
	// Limit caps how many feed documents one pass inspects. Zero means all.
	Limit int
	// SinceDays ignores documents saved more than this many days ago.
	// Zero disables the age filter.
	SinceDays int
	// RequestDelay is the pause before each location change.
	RequestDelay time.Duration
	// DryRun skips the location updates. Cache entries are still recorded
	// in memory but never written to disk.
	DryRun bool
}

// Reconciler walks the feed partition and sorts each document into one of
// the triage outcomes: promoted, no marker, awaiting annotation, or skipped.
type Reconciler struct {
	// OnPromoted, when set, runs after each successful promotion. The hook
	// owns its own failure handling; the pass does not stop for it.
	OnPromoted func(ctx context.Context, doc domain.Document)
	// Titles, when set, resolves page titles for promoted documents the
	// API returned without one.
	Titles TitleResolver

	source DocumentSource
	mover  DocumentMover
	cache  *cache.Cache
	opts   Options
	log    logger.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewReconciler wires a reconciler over the given source and mover.
func NewReconciler(source DocumentSource, mover DocumentMover, c *cache.Cache, opts Options, log logger.Logger) *Reconciler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Reconciler{
		source: source,
		mover:  mover,
		cache:  c,
		opts:   opts,
		log:    log,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Run executes one pass, recording every outcome in stats. A failed move
// aborts the pass; the document stays uncached so the next run retries it.
func (r *Reconciler) Run(ctx context.Context, stats *RunStats) error {
	stats.DryRun = r.opts.DryRun
	stats.PromoteTo = r.opts.PromoteTo

	docs, err := r.source.FetchPartition(ctx, r.opts.FeedLocation, r.opts.Limit)
	if err != nil {
		return fmt.Errorf("fetch %s partition: %w", r.opts.FeedLocation, err)
	}
	if r.opts.Limit > 0 && len(docs) > r.opts.Limit {
		docs = docs[:r.opts.Limit]
	}
	stats.Fetched = len(docs)

	var cutoff time.Time
	if r.opts.SinceDays > 0 {
		cutoff = r.now().AddDate(0, 0, -r.opts.SinceDays)
	}

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var outcome string
		switch {
		case !cutoff.IsZero() && doc.SavedAt().Before(cutoff):
			stats.SkippedTooOld++
			outcome = "too_old"
		case r.cache.Has(doc.ID):
			stats.SkippedCached++
			outcome = "cached"
		case !Annotated(doc):
			// Left out of the cache so the next run picks it up once
			// the summary lands.
			stats.Unannotated = append(stats.Unannotated, displayTitle(doc))
			outcome = "unannotated"
		case !HasVerdict(doc, r.opts.Marker):
			stats.NoMarker = append(stats.NoMarker, displayTitle(doc))
			r.cache.Put(doc.ID, cache.Entry{Promoted: false})
			outcome = "no_marker"
		default:
			if err := r.promote(ctx, doc, stats); err != nil {
				return err
			}
			outcome = "promoted"
		}

		r.log.DebugObj("document classified", "triage_trace", map[string]any{
			"document_id": doc.ID,
			"outcome":     outcome,
		})
	}

	r.log.InfoObj("reconcile pass finished", "reconcile_result", map[string]any{
		"fetched":        stats.Fetched,
		"promoted":       len(stats.Promoted),
		"no_marker":      len(stats.NoMarker),
		"unannotated":    len(stats.Unannotated),
		"skipped_cached": stats.SkippedCached,
		"skipped_old":    stats.SkippedTooOld,
		"dry_run":        r.opts.DryRun,
	})
	return nil
}

func (r *Reconciler) promote(ctx context.Context, doc domain.Document, stats *RunStats) error {
	title := r.promotedTitle(ctx, doc)

	if r.opts.DryRun {
		stats.Promoted = append(stats.Promoted, title)
		r.cache.Put(doc.ID, cache.Entry{Promoted: true})
		r.log.InfoObj("dry run: would promote document", "promotion", map[string]any{
			"document_id": doc.ID,
			"title":       title,
			"location":    r.opts.PromoteTo,
		})
		return nil
	}

	if r.opts.RequestDelay > 0 {
		if err := r.sleep(ctx, r.opts.RequestDelay); err != nil {
			return err
		}
	}
	if err := r.mover.UpdateLocation(ctx, doc.ID, r.opts.PromoteTo); err != nil {
		return fmt.Errorf("promote document %s: %w", doc.ID, err)
	}

	stats.Promoted = append(stats.Promoted, title)
	r.cache.Put(doc.ID, cache.Entry{Promoted: true})
	r.log.InfoObj("document promoted", "promotion", map[string]any{
		"document_id": doc.ID,
		"title":       title,
		"location":    r.opts.PromoteTo,
	})

	if r.OnPromoted != nil {
		r.OnPromoted(ctx, doc)
	}
	return nil
}

// promotedTitle scrapes the page title when the record has none. Only
// promoted documents are worth the extra fetch.
func (r *Reconciler) promotedTitle(ctx context.Context, doc domain.Document) string {
	if strings.TrimSpace(doc.Title) != "" || r.Titles == nil {
		return displayTitle(doc)
	}

	for _, u := range []string{doc.SourceURL, doc.URL} {
		if strings.TrimSpace(u) == "" {
			continue
		}
		title, err := r.Titles.ResolveTitle(ctx, u)
		if err != nil {
			r.log.WarnObj("title lookup failed", "title_error", map[string]any{
				"url":   u,
				"error": err.Error(),
			})
			continue
		}
		if strings.TrimSpace(title) != "" {
			return title
		}
	}
	return displayTitle(doc)
}

// displayTitle is the report line for a document, without touching the
// network.
func displayTitle(doc domain.Document) string {
	if t := strings.TrimSpace(doc.Title); t != "" {
		return t
	}
	if doc.SourceURL != "" {
		return doc.SourceURL
	}
	if doc.URL != "" {
		return doc.URL
	}
	return "(untitled)"
}

// sleepContext blocks for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
