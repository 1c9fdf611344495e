// Package repository defines the persistence interfaces.
package repository

import (
	"context"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// FindByID returns the user with the given id, or nil when absent.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns the user with the given (lowercased) email, or nil.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByBillingCustomerID resolves a billing customer id to a user, or nil.
	FindByBillingCustomerID(ctx context.Context, customerID string) (*model.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// Update overwrites the mutable user fields (role, flags, billing state).
	Update(ctx context.Context, user *model.User) error
}

// ArticleRepository persists news articles. URL is the natural key used by
// the importer's upsert.
type ArticleRepository interface {
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// FindByURL returns the article with the given canonical URL, or nil.
	FindByURL(ctx context.Context, url string) (*model.Article, error)

	Create(ctx context.Context, article *model.Article) error
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, id string) error

	// List returns articles ordered by published_at descending. Empty filter
	// values match everything; drafts are excluded unless includeDrafts.
	List(ctx context.Context, language string, status model.ArticleStatus, includeDrafts bool, limit int) ([]*model.Article, error)
}

// RSSFeedRepository persists administrator-managed feed subscriptions.
type RSSFeedRepository interface {
	FindByID(ctx context.Context, id string) (*model.RSSFeed, error)
	FindByURL(ctx context.Context, url string) (*model.RSSFeed, error)
	Create(ctx context.Context, feed *model.RSSFeed) error
	Update(ctx context.Context, feed *model.RSSFeed) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.RSSFeed, error)

	// ListEnabled returns the feeds the import worker should process.
	ListEnabled(ctx context.Context) ([]*model.RSSFeed, error)

	// MarkImported stamps last_imported_at after an import run, regardless of
	// the run's outcome.
	MarkImported(ctx context.Context, id string, at time.Time) error
}

// JobFavoriteRepository persists per-user job favorites.
type JobFavoriteRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*model.JobFavorite, error)
	Create(ctx context.Context, fav *model.JobFavorite) error

	// Delete removes the favorite when it belongs to the user.
	// Returns false when no matching row exists.
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// JobSearchEventRepository records search keywords for analytics.
type JobSearchEventRepository interface {
	Create(ctx context.Context, event *model.JobSearchEvent) error

	// TopKeywords aggregates the most frequent keyword/canton pairs.
	TopKeywords(ctx context.Context, limit int) ([]model.KeywordCount, error)
}

// SubscriptionRepository persists the durable billing records.
type SubscriptionRepository interface {
	// FindByUserID returns the user's subscription row, or nil.
	FindByUserID(ctx context.Context, userID string) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error
	Update(ctx context.Context, sub *model.Subscription) error
}

// SubscriptionEventRepository stores the billing event audit log.
type SubscriptionEventRepository interface {
	Create(ctx context.Context, event *model.SubscriptionEvent) error

	// DeleteOlderThan purges events created before the cutoff.
	// Returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GuideRepository persists guides.
type GuideRepository interface {
	FindByID(ctx context.Context, id string) (*model.Guide, error)
	FindBySlug(ctx context.Context, slug string) (*model.Guide, error)
	Create(ctx context.Context, guide *model.Guide) error
	Update(ctx context.Context, guide *model.Guide) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category string, includeUnpublished bool) ([]*model.Guide, error)
}

// ChecklistRepository persists checklists.
type ChecklistRepository interface {
	FindByID(ctx context.Context, id string) (*model.Checklist, error)
	Create(ctx context.Context, checklist *model.Checklist) error
	Update(ctx context.Context, checklist *model.Checklist) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, includeUnpublished bool) ([]*model.Checklist, error)
}

// TemplateRepository persists document templates.
type TemplateRepository interface {
	FindByID(ctx context.Context, id string) (*model.Template, error)
	Create(ctx context.Context, tmpl *model.Template) error
	Update(ctx context.Context, tmpl *model.Template) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category string, includeDrafts bool) ([]*model.Template, error)
}

// AppointmentRepository persists appointments.
type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	Create(ctx context.Context, appt *model.Appointment) error
	Update(ctx context.Context, appt *model.Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error)
}

// GlossaryRepository persists glossary terms.
type GlossaryRepository interface {
	FindByID(ctx context.Context, id string) (*model.GlossaryTerm, error)
	FindByTerm(ctx context.Context, term string) (*model.GlossaryTerm, error)
	Create(ctx context.Context, term *model.GlossaryTerm) error
	Update(ctx context.Context, term *model.GlossaryTerm) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.GlossaryTerm, error)
}

// TranslationRepository persists submitted translations.
type TranslationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Translation, error)
	Create(ctx context.Context, tr *model.Translation) error
	Update(ctx context.Context, tr *model.Translation) error
	Delete(ctx context.Context, id string) error
	ListByEntity(ctx context.Context, entity, entityID string) ([]*model.Translation, error)
	ListByStatus(ctx context.Context, status model.TranslationStatus) ([]*model.Translation, error)
}

// AuditLogRepository records administrative mutations.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RemoteConfigRepository backs the mutable remote-config flag store.
type RemoteConfigRepository interface {
	// All returns every flag as key/value pairs.
	All(ctx context.Context) (map[string]string, error)

	// Set upserts one flag.
	Set(ctx context.Context, key, value string) error
}
