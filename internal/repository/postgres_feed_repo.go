package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresRSSFeedRepo is the PostgreSQL-backed feed repository.
type PostgresRSSFeedRepo struct {
	db *sql.DB
}

// NewPostgresRSSFeedRepo creates a PostgresRSSFeedRepo.
func NewPostgresRSSFeedRepo(db *sql.DB) *PostgresRSSFeedRepo {
	return &PostgresRSSFeedRepo{db: db}
}

const feedColumns = `id, url, language, status, enabled, max_items,
        download_images, last_imported_at, created_at, updated_at`

func scanFeed(row interface{ Scan(...any) error }) (*model.RSSFeed, error) {
	feed := &model.RSSFeed{}
	var lastImported sql.NullTime

	err := row.Scan(
		&feed.ID, &feed.URL, &feed.Language, &feed.Status,
		&feed.Enabled, &feed.MaxItems, &feed.DownloadImages,
		&lastImported, &feed.CreatedAt, &feed.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	feed.LastImportedAt = nullTimeValue(lastImported)
	return feed, nil
}

// FindByID returns the feed with the given id, or nil when absent.
func (r *PostgresRSSFeedRepo) FindByID(ctx context.Context, id string) (*model.RSSFeed, error) {
	feed, err := scanFeed(r.db.QueryRowContext(ctx,
		`SELECT `+feedColumns+` FROM rss_feeds WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find feed by id: %w", err)
	}
	return feed, nil
}

// FindByURL returns the feed with the given URL, or nil when absent.
func (r *PostgresRSSFeedRepo) FindByURL(ctx context.Context, url string) (*model.RSSFeed, error) {
	feed, err := scanFeed(r.db.QueryRowContext(ctx,
		`SELECT `+feedColumns+` FROM rss_feeds WHERE url = $1`, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find feed by url: %w", err)
	}
	return feed, nil
}

// Create inserts a new feed.
func (r *PostgresRSSFeedRepo) Create(ctx context.Context, feed *model.RSSFeed) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rss_feeds (id, url, language, status, enabled, max_items,
		                        download_images, last_imported_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		feed.ID, feed.URL, feed.Language, feed.Status,
		feed.Enabled, feed.MaxItems, feed.DownloadImages,
		nullTime(feed.LastImportedAt), feed.CreatedAt, feed.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create feed: %w", err)
	}
	return nil
}

// Update overwrites the feed settings.
func (r *PostgresRSSFeedRepo) Update(ctx context.Context, feed *model.RSSFeed) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rss_feeds SET
		    url = $2, language = $3, status = $4, enabled = $5,
		    max_items = $6, download_images = $7, updated_at = $8
		 WHERE id = $1`,
		feed.ID, feed.URL, feed.Language, feed.Status, feed.Enabled,
		feed.MaxItems, feed.DownloadImages, feed.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update feed: %w", err)
	}
	return nil
}

// Delete removes a feed.
func (r *PostgresRSSFeedRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rss_feeds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	return nil
}

// List returns every registered feed, newest first.
func (r *PostgresRSSFeedRepo) List(ctx context.Context) ([]*model.RSSFeed, error) {
	return r.queryFeeds(ctx,
		`SELECT `+feedColumns+` FROM rss_feeds ORDER BY created_at DESC`)
}

// ListEnabled returns the feeds the import worker should process.
func (r *PostgresRSSFeedRepo) ListEnabled(ctx context.Context) ([]*model.RSSFeed, error) {
	return r.queryFeeds(ctx,
		`SELECT `+feedColumns+` FROM rss_feeds WHERE enabled = TRUE ORDER BY created_at ASC`)
}

func (r *PostgresRSSFeedRepo) queryFeeds(ctx context.Context, query string, args ...any) ([]*model.RSSFeed, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	var feeds []*model.RSSFeed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed row: %w", err)
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed rows: %w", err)
	}
	return feeds, nil
}

// MarkImported stamps last_imported_at after an import run.
func (r *PostgresRSSFeedRepo) MarkImported(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rss_feeds SET last_imported_at = $2, updated_at = now() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("mark feed imported: %w", err)
	}
	return nil
}

// compile-time interface check
var _ RSSFeedRepository = (*PostgresRSSFeedRepo)(nil)
