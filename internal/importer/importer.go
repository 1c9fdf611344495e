// Package importer populates the article store from RSS/Atom feeds and
// single article pages.
package importer

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/sweeezy/backend/internal/extract"
	"github.com/sweeezy/backend/internal/fetch"
	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// defaultMaxItems bounds a run when the feed row carries no limit.
const defaultMaxItems = 20

// imgSrcPattern pulls the first inline image out of a summary HTML fragment.
var imgSrcPattern = regexp.MustCompile(`<img[^>]+src="([^"]+)"`)

// PageFetcher retrieves remote documents. Failures yield empty results.
type PageFetcher interface {
	Text(url string, timeout time.Duration) string
	Bytes(url string, timeout time.Duration) []byte
}

// Sanitizer strips unsafe markup from summary HTML before persistence.
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// MetricsRecorder receives per-run import counters.
type MetricsRecorder interface {
	RecordImportRun(created, updated, skipped int)
}

// Options control one import invocation.
type Options struct {
	Language       string
	Status         model.ArticleStatus
	MaxItems       int
	DownloadImages bool
}

// Importer runs the feed import state machine. External failures degrade to
// fallback values; an import never returns an error, only counters.
type Importer struct {
	articles  repository.ArticleRepository
	feeds     repository.RSSFeedRepository
	fetcher   PageFetcher
	sanitizer Sanitizer
	metrics   MetricsRecorder
	parser    *gofeed.Parser
	uploadDir string
	now       func() time.Time
}

// New creates an Importer. metrics may be nil.
func New(
	articles repository.ArticleRepository,
	feeds repository.RSSFeedRepository,
	fetcher PageFetcher,
	sanitizer Sanitizer,
	metrics MetricsRecorder,
	uploadDir string,
) *Importer {
	return &Importer{
		articles:  articles,
		feeds:     feeds,
		fetcher:   fetcher,
		sanitizer: sanitizer,
		metrics:   metrics,
		parser:    gofeed.NewParser(),
		uploadDir: uploadDir,
		now:       time.Now,
	}
}

// ImportFeed imports one stored feed subscription and stamps its
// last_imported_at regardless of the run's outcome.
func (i *Importer) ImportFeed(ctx context.Context, feed *model.RSSFeed) model.ImportResult {
	result := i.ImportFromURL(ctx, feed.URL, Options{
		Language:       feed.Language,
		Status:         feed.Status,
		MaxItems:       feed.MaxItems,
		DownloadImages: feed.DownloadImages,
	})

	if err := i.feeds.MarkImported(ctx, feed.ID, i.now()); err != nil {
		slog.Warn("failed to stamp feed import time", "feed_id", feed.ID, "error", err)
	}

	return result
}

// ImportFromURL runs the import state machine against an arbitrary URL:
// parse as a feed, fall back to alternate-link discovery once, then to
// treating the URL as a single article page.
func (i *Importer) ImportFromURL(ctx context.Context, rawURL string, opts Options) model.ImportResult {
	body := i.fetcher.Text(rawURL, fetch.FeedTimeout)

	items := i.parseFeedItems(body)
	if len(items) == 0 {
		// One-shot discovery: an HTML page may advertise its feed in <head>.
		if altURL := discoverFeedURL(body, rawURL); altURL != "" {
			altBody := i.fetcher.Text(altURL, fetch.AuxTimeout)
			items = i.parseFeedItems(altBody)
		}
	}

	var result model.ImportResult
	if len(items) == 0 {
		result = i.importSinglePage(ctx, rawURL, body, opts)
	} else {
		result = i.importEntries(ctx, rawURL, items, opts)
	}

	if i.metrics != nil {
		i.metrics.RecordImportRun(result.Created, result.Updated, result.Skipped)
	}
	return result
}

func (i *Importer) parseFeedItems(body string) []*gofeed.Item {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	parsed, err := i.parser.ParseString(body)
	if err != nil || parsed == nil {
		return nil
	}
	return parsed.Items
}

// importSinglePage treats the URL as one article page and upserts a single
// article from its Open Graph metadata.
func (i *Importer) importSinglePage(ctx context.Context, rawURL, body string, opts Options) model.ImportResult {
	meta := extract.OpenGraphMeta(body)

	publishedAt := i.now()
	if meta.PublishedAt != nil {
		publishedAt = *meta.PublishedAt
	}

	imageURL := resolveImageURL(rawURL, meta.ImageURL)
	if opts.DownloadImages && imageURL != "" {
		imageURL = i.mirrorImage(imageURL)
	}

	parsed := &model.ParsedArticle{
		Title:       meta.Title,
		Summary:     i.sanitizer.Sanitize(meta.Description),
		URL:         rawURL,
		Source:      sourceFromURL(rawURL),
		PublishedAt: publishedAt,
		ImageURL:    imageURL,
	}

	created, err := i.upsert(ctx, parsed, opts)
	if err != nil {
		slog.Warn("single page import failed", "url", rawURL, "error", err)
		return model.ImportResult{Skipped: 1}
	}
	if created {
		return model.ImportResult{Created: 1}
	}
	return model.ImportResult{Updated: 1}
}

// importEntries processes feed entries up to the configured max-items bound.
// A malformed entry increments skipped and never aborts the batch.
func (i *Importer) importEntries(ctx context.Context, feedURL string, items []*gofeed.Item, opts Options) model.ImportResult {
	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	source := sourceFromURL(feedURL)
	var result model.ImportResult

	for _, item := range items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			result.Skipped++
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		publishedAt := i.now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		imageURL := entryImageURL(item, summary)
		if opts.DownloadImages && imageURL != "" {
			imageURL = i.mirrorImage(imageURL)
		}

		parsed := &model.ParsedArticle{
			Title:       title,
			Summary:     i.sanitizer.Sanitize(summary),
			URL:         strings.TrimSpace(item.Link),
			Source:      source,
			PublishedAt: publishedAt,
			ImageURL:    imageURL,
		}

		created, err := i.upsert(ctx, parsed, opts)
		if err != nil {
			slog.Warn("feed entry import failed", "url", parsed.URL, "error", err)
			result.Skipped++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result
}

// upsert stores the parsed article, matching existing rows by URL.
func (i *Importer) upsert(ctx context.Context, parsed *model.ParsedArticle, opts Options) (bool, error) {
	status := opts.Status
	if status == "" {
		status = model.ArticleStatusPublished
	}
	language := opts.Language
	if language == "" {
		language = "uk"
	}

	existing, err := i.articles.FindByURL(ctx, parsed.URL)
	if err != nil {
		return false, err
	}

	now := i.now()
	if existing != nil {
		existing.Title = parsed.Title
		existing.Summary = parsed.Summary
		existing.PublishedAt = parsed.PublishedAt
		if parsed.ImageURL != "" {
			existing.ImageURL = parsed.ImageURL
		}
		existing.UpdatedAt = now
		return false, i.articles.Update(ctx, existing)
	}

	article := &model.Article{
		ID:          uuid.NewString(),
		Title:       parsed.Title,
		Summary:     parsed.Summary,
		URL:         parsed.URL,
		Source:      parsed.Source,
		Language:    language,
		Status:      status,
		PublishedAt: parsed.PublishedAt,
		ImageURL:    parsed.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return true, i.articles.Create(ctx, article)
}

// entryImageURL finds an image for a feed entry: structured fields first,
// then the first inline <img> in the summary HTML.
func entryImageURL(item *gofeed.Item, summary string) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	if m := imgSrcPattern.FindStringSubmatch(summary); m != nil {
		return m[1]
	}
	return ""
}

// resolveImageURL makes a page-relative image reference absolute against
// the page URL. Unparsable values pass through unchanged.
func resolveImageURL(pageURL, imageURL string) string {
	if imageURL == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return imageURL
	}
	ref, err := url.Parse(imageURL)
	if err != nil {
		return imageURL
	}
	return base.ResolveReference(ref).String()
}

// sourceFromURL labels imported articles with the publisher's hostname.
func sourceFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "Sweeezy"
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
