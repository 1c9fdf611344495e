// Package content manages the editorial entities: guides, checklists,
// templates, glossary terms and submitted translations.
package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/audit"
	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// GuideService provides guide CRUD. Slugs are unique; content edits bump
// the version counter.
type GuideService struct {
	guides repository.GuideRepository
	audit  *audit.Recorder
	now    func() time.Time
}

// NewGuideService creates a GuideService.
func NewGuideService(guides repository.GuideRepository, auditor *audit.Recorder) *GuideService {
	return &GuideService{guides: guides, audit: auditor, now: time.Now}
}

// GuideInput carries the writable guide fields.
type GuideInput struct {
	Title       string
	Slug        string
	Description string
	Content     string
	Category    string
	IsPublished *bool
	ImageURL    string
}

// List returns guides, optionally filtered by category.
func (s *GuideService) List(ctx context.Context, category string, includeUnpublished bool) ([]*model.Guide, error) {
	return s.guides.List(ctx, category, includeUnpublished)
}

// Get returns one guide by id.
func (s *GuideService) Get(ctx context.Context, id string) (*model.Guide, error) {
	guide, err := s.guides.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if guide == nil {
		return nil, model.NewNotFoundError("guide", id)
	}
	return guide, nil
}

// GetBySlug returns one guide by slug.
func (s *GuideService) GetBySlug(ctx context.Context, slug string) (*model.Guide, error) {
	guide, err := s.guides.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if guide == nil {
		return nil, model.NewNotFoundError("guide", slug)
	}
	return guide, nil
}

// Create stores a new guide.
func (s *GuideService) Create(ctx context.Context, actorEmail string, input GuideInput) (*model.Guide, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, model.NewInvalidRequestError("title is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify(title)
	}

	existing, err := s.guides.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewDuplicateSlugError(slug)
	}

	now := s.now()
	guide := &model.Guide{
		ID:          uuid.NewString(),
		Title:       title,
		Slug:        slug,
		Description: input.Description,
		Content:     input.Content,
		Category:    input.Category,
		IsPublished: true,
		Version:     1,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.IsPublished != nil {
		guide.IsPublished = *input.IsPublished
	}

	if err := s.guides.Create(ctx, guide); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "create", "guides", guide.ID, input)
	return guide, nil
}

// Update overwrites a guide. A change to the content bumps the version.
func (s *GuideService) Update(ctx context.Context, actorEmail, id string, input GuideInput) (*model.Guide, error) {
	guide, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != guide.Slug {
		other, err := s.guides.FindBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != guide.ID {
			return nil, model.NewDuplicateSlugError(slug)
		}
		guide.Slug = slug
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		guide.Title = title
	}
	guide.Description = input.Description
	if input.Content != guide.Content {
		guide.Content = input.Content
		guide.Version++
	}
	if input.Category != "" {
		guide.Category = input.Category
	}
	if input.IsPublished != nil {
		guide.IsPublished = *input.IsPublished
	}
	guide.ImageURL = input.ImageURL
	guide.UpdatedAt = s.now()

	if err := s.guides.Update(ctx, guide); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "update", "guides", guide.ID, input)
	return guide, nil
}

// Delete removes a guide.
func (s *GuideService) Delete(ctx context.Context, actorEmail, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.guides.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "guides", id, nil)
	return nil
}

// slugify derives a URL slug from a title: lowercase, non-alphanumerics
// collapsed to single hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
