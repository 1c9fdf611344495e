// Package model defines the domain models.
package model

import "time"

// Guide is a localized how-to article with versioned content.
type Guide struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Content     string
	Category    string
	IsPublished bool
	Version     int
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Checklist is an ordered list of actionable items stored as JSON.
type Checklist struct {
	ID          string
	Title       string
	Description string
	Items       []ChecklistItem
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChecklistItem is one entry of a checklist.
type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Template is a downloadable document template.
type Template struct {
	ID        string
	Name      string
	Category  string
	Content   string
	Status    string // draft|published
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GlossaryTerm maps a term to its translations.
type GlossaryTerm struct {
	ID          string
	Term        string
	UK          string
	RU          string
	EN          string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TranslationStatus is the review state of a submitted translation.
type TranslationStatus string

const (
	TranslationPending  TranslationStatus = "pending"
	TranslationApproved TranslationStatus = "approved"
	TranslationRejected TranslationStatus = "rejected"
)

// Translation is a submitted localization of a content entity.
type Translation struct {
	ID          string
	Entity      string // guides|templates|checklists|news
	EntityID    string
	Language    string
	Status      TranslationStatus
	Title       string
	Description string
	Content     string
	AuthorEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
