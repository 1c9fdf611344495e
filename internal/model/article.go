// Package model defines the domain models.
package model

import "time"

// ArticleStatus is the publication lifecycle state of an article.
type ArticleStatus string

const (
	// ArticleStatusDraft marks an article as not yet visible to readers.
	ArticleStatusDraft ArticleStatus = "draft"
	// ArticleStatusPublished marks an article as publicly visible.
	ArticleStatusPublished ArticleStatus = "published"
)

// Article is a news article, either imported from a feed or created manually.
// The canonical source URL is unique; imports upsert by URL.
type Article struct {
	ID          string
	Title       string
	Summary     string
	Content     string
	URL         string
	Source      string
	Language    string
	Status      ArticleStatus
	PublishedAt time.Time
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ImportResult holds the per-run counters of a feed import.
// An import never fails hard; callers inspect the counters.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

// ParsedArticle is an unsaved article produced by the importer before upsert.
type ParsedArticle struct {
	Title       string
	Summary     string
	URL         string
	Source      string
	PublishedAt time.Time
	ImageURL    string
}
