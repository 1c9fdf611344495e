// Package model defines the domain models.
package model

import "time"

// JobListing is a normalized job search result. Listings are produced fresh
// per search request and are not persisted except as favorites.
type JobListing struct {
	ID             string // "<source>:<provider-native id>"
	Source         string
	Title          string
	Company        string
	Location       string
	Canton         string
	URL            string
	PostedAt       *time.Time
	EmploymentType string
	Salary         string
	Snippet        string
}

// JobFavorite is a per-user snapshot of a listing's display fields.
// It is never synchronized back to the live listing.
type JobFavorite struct {
	ID        string
	UserID    string
	JobID     string
	Source    string
	Title     string
	Company   string
	Location  string
	Canton    string
	URL       string
	CreatedAt time.Time
}

// JobSearchEvent records a search keyword for analytics.
type JobSearchEvent struct {
	ID        string
	Keyword   string
	Canton    string
	CreatedAt time.Time
}

// JobSearchResult is the outcome of one aggregated search.
// SourceCounts holds the per-provider listing count; -1 means the provider
// was configured but every attempt failed outright.
type JobSearchResult struct {
	Items        []JobListing
	Total        int
	SourceCounts map[string]int
}

// KeywordCount is one row of the top-keywords analytics aggregation.
type KeywordCount struct {
	Keyword string
	Canton  string
	Count   int
}
