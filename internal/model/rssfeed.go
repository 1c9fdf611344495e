// Package model defines the domain models.
package model

import "time"

// RSSFeed is an administrator-managed feed subscription.
// Enabled feeds are consumed periodically by the import worker.
type RSSFeed struct {
	ID             string
	URL            string
	Language       string
	Status         ArticleStatus // default status assigned to imported articles
	Enabled        bool
	MaxItems       int
	DownloadImages bool
	LastImportedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
