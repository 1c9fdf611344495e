// Package importrun provides the background feed import loop. A ticker
// drives periodic runs over all enabled feeds; feeds imported recently
// enough are skipped.
package importrun

import (
	"context"
	"log/slog"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// FeedLister returns the feeds the import loop should consider. Defined
// as a subset of repository.RSSFeedRepository.
type FeedLister interface {
	ListEnabled(ctx context.Context) ([]*model.RSSFeed, error)
}

// FeedImporter runs one feed import. Defined as a subset of
// importer.Importer.
type FeedImporter interface {
	ImportFeed(ctx context.Context, feed *model.RSSFeed) model.ImportResult
}

// Scheduler drives the periodic import over enabled feeds. Feeds are
// processed one at a time so a slow source never multiplies outbound
// load; a failing feed only affects its own counters.
type Scheduler struct {
	feeds    FeedLister
	importer FeedImporter
	logger   *slog.Logger
	now      func() time.Time
}

// NewScheduler creates a Scheduler.
func NewScheduler(feeds FeedLister, importer FeedImporter, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		feeds:    feeds,
		importer: importer,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the import loop until the context is canceled. The first run
// fires immediately, then once per interval.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("import scheduler started",
		slog.Duration("interval", interval),
	)

	if err := s.RunOnce(ctx, interval); err != nil {
		s.logger.Error("import cycle failed",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("import scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx, interval); err != nil {
				s.logger.Error("import cycle failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce imports every enabled feed whose last import lies further back
// than the interval. Returns an error only when the feed listing itself
// fails; per-feed outcomes are logged.
func (s *Scheduler) RunOnce(ctx context.Context, interval time.Duration) error {
	start := s.now()

	feeds, err := s.feeds.ListEnabled(ctx)
	if err != nil {
		return err
	}

	var processed, skipped int
	var totals model.ImportResult
	for _, feed := range feeds {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if feed.LastImportedAt != nil && s.now().Sub(*feed.LastImportedAt) < interval {
			skipped++
			continue
		}

		result := s.importer.ImportFeed(ctx, feed)
		processed++
		totals.Created += result.Created
		totals.Updated += result.Updated
		totals.Skipped += result.Skipped

		s.logger.Info("feed imported",
			slog.String("feed_id", feed.ID),
			slog.String("feed_url", feed.URL),
			slog.Int("created", result.Created),
			slog.Int("updated", result.Updated),
			slog.Int("skipped", result.Skipped),
		)
	}

	s.logger.Info("import cycle completed",
		slog.Int("feeds_processed", processed),
		slog.Int("feeds_skipped", skipped),
		slog.Int("articles_created", totals.Created),
		slog.Int("articles_updated", totals.Updated),
		slog.Float64("duration_ms", float64(s.now().Sub(start).Milliseconds())),
	)

	return nil
}
