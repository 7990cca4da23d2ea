package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lectern-hq/lectern-reader-agent/internal/cache"
	"github.com/lectern-hq/lectern-reader-agent/internal/config"
	"github.com/lectern-hq/lectern-reader-agent/internal/domain"
	"github.com/lectern-hq/lectern-reader-agent/internal/enrich"
	"github.com/lectern-hq/lectern-reader-agent/internal/logger"
	"github.com/lectern-hq/lectern-reader-agent/internal/reader"
	"github.com/lectern-hq/lectern-reader-agent/internal/triage"
	"github.com/lectern-hq/lectern-reader-agent/pkg/publishers"
)

// Triager represents the triage runtime. It owns the Reader client, the
// completion cache, and the optional promotion-event fanout, and runs either
// a single pass or a polling loop depending on configuration.
type Triager struct {
	cfg    *config.Config
	source triage.DocumentSource
	mover  triage.DocumentMover
	cache  *cache.Cache
	fanout *publishers.Fanout
	titles triage.TitleResolver
	log    logger.Logger
	out    io.Writer
}

// NewTriager builds a triage runtime from configuration.
func NewTriager(ctx context.Context, cfg *config.Config, log logger.Logger) (*Triager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := reader.NewClient(reader.Options{
		Token:        cfg.ReadwiseToken,
		BaseURL:      cfg.APIBaseURL,
		Timeout:      cfg.HTTPTimeout,
		RequestDelay: cfg.RequestDelay,
		Logger:       log,
	})

	backendType := cfg.CacheBackend
	if cfg.NoCache {
		backendType = "none"
	}
	backend, err := cache.NewBackend(backendType, cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("init cache backend: %w", err)
	}
	completed, err := cache.Open(backend)
	if err != nil {
		return nil, err
	}
	log.InfoObj("completion cache loaded", "cache_config", map[string]any{
		"backend": backendType,
		"path":    cfg.CachePath,
		"entries": completed.Len(),
	})

	t := newTriager(cfg, client, client, completed, log)

	if cfg.PublishersFile != "" {
		fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
		if err != nil {
			return nil, err
		}
		t.fanout = fanout
	}

	if cfg.EnrichTitles {
		t.titles = enrich.NewScraper(nil, log)
	}

	return t, nil
}

// newTriager wires the runtime from its parts. Tests use it to substitute
// fakes for the Reader client.
func newTriager(cfg *config.Config, source triage.DocumentSource, mover triage.DocumentMover, completed *cache.Cache, log logger.Logger) *Triager {
	return &Triager{
		cfg:    cfg,
		source: source,
		mover:  mover,
		cache:  completed,
		log:    log,
		out:    os.Stdout,
	}
}

// buildFanout loads the publishers file and instantiates every enabled sink.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		log.WarnObj("publishers file has no enabled entries", "publishers_file", path)
		return nil, nil
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, cfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   cfg.ID,
			"type": cfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return publishers.NewFanout(pubs), nil
}

// Run executes a single pass, or the polling loop when an interval is
// configured, until the context is cancelled.
func (t *Triager) Run(ctx context.Context) error {
	if t == nil || t.source == nil {
		return fmt.Errorf("triager is not initialized")
	}
	defer t.close()

	if t.cfg.PollInterval <= 0 {
		return t.runOnce(ctx)
	}

	t.log.InfoObj("triage loop starting", "triager_state", map[string]any{
		"poll_interval": t.cfg.PollInterval.String(),
		"feed_location": t.cfg.FeedLocation,
		"promote_to":    t.cfg.PromoteTo,
		"dry_run":       t.cfg.DryRun,
	})

	if err := t.runOnce(ctx); err != nil {
		t.log.ErrorObj("initial triage pass failed", "error", err)
	}

	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.InfoObj("triage loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := t.runOnce(ctx); err != nil {
				t.log.ErrorObj("scheduled triage pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single sweep-and-reconcile pass and renders its report.
func (t *Triager) runOnce(ctx context.Context) error {
	start := time.Now()
	stats := &triage.RunStats{}
	opts := t.triageOptions()

	if t.cfg.ArchiveLater {
		sweeper := triage.NewSweeper(t.source, t.mover, opts, t.log)
		if err := sweeper.Run(ctx, stats); err != nil {
			return err
		}
	}

	rec := triage.NewReconciler(t.source, t.mover, t.cache, opts, t.log)
	rec.Titles = t.titles
	if t.fanout != nil && t.fanout.Size() > 0 {
		rec.OnPromoted = t.publishPromotion
	}

	runErr := rec.Run(ctx, stats)

	// An aborted pass leaves the persisted record at its last clean state.
	if runErr == nil && !t.cfg.DryRun {
		if err := t.cache.Persist(); err != nil {
			runErr = fmt.Errorf("persist cache: %w", err)
		}
	}

	triage.RenderReport(t.out, stats)

	t.log.InfoObj("triage pass completed", "pass_meta", map[string]any{
		"elapsed_ms": time.Since(start).Milliseconds(),
		"fetched":    stats.Fetched,
		"moves":      stats.Moves(),
		"dry_run":    stats.DryRun,
	})
	return runErr
}

func (t *Triager) triageOptions() triage.Options {
	return triage.Options{
		FeedLocation: t.cfg.FeedLocation,
		PromoteTo:    t.cfg.PromoteTo,
		Marker:       t.cfg.VerdictMarker,
		Limit:        t.cfg.Limit,
		SinceDays:    t.cfg.SinceDays,
		RequestDelay: t.cfg.RequestDelay,
		DryRun:       t.cfg.DryRun,
	}
}

// publishPromotion fans the event out to the configured sinks. Delivery
// failures are logged and never fail the pass.
func (t *Triager) publishPromotion(ctx context.Context, doc domain.Document) {
	evt := publishers.NewEvent(doc, t.cfg.PromoteTo)
	if _, err := t.fanout.Publish(ctx, evt); err != nil {
		t.log.WarnObj("promotion event publish failed", "publish_error", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
	}
}

// close releases the cache and any publisher connections, logging failures.
func (t *Triager) close() {
	if t.cache != nil {
		if err := t.cache.Close(); err != nil {
			t.log.ErrorObj("cache close failed", "error", err)
		}
	}
	if t.fanout != nil {
		if err := t.fanout.Close(); err != nil {
			t.log.ErrorObj("publisher close failed", "error", err)
		}
	}
}
