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

// TemplateService provides document template CRUD.
type TemplateService struct {
	templates repository.TemplateRepository
	audit     *audit.Recorder
	now       func() time.Time
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(templates repository.TemplateRepository, auditor *audit.Recorder) *TemplateService {
	return &TemplateService{templates: templates, audit: auditor, now: time.Now}
}

// TemplateInput carries the writable template fields.
type TemplateInput struct {
	Name     string
	Category string
	Content  string
	Status   string
}

// List returns templates, optionally filtered by category.
func (s *TemplateService) List(ctx context.Context, category string, includeDrafts bool) ([]*model.Template, error) {
	return s.templates.List(ctx, category, includeDrafts)
}

// Get returns one template by id.
func (s *TemplateService) Get(ctx context.Context, id string) (*model.Template, error) {
	tmpl, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, model.NewNotFoundError("template", id)
	}
	return tmpl, nil
}

// Create stores a new template.
func (s *TemplateService) Create(ctx context.Context, actorEmail string, input TemplateInput) (*model.Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.NewInvalidRequestError("name is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, model.NewInvalidRequestError("content is required")
	}

	now := s.now()
	tmpl := &model.Template{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  input.Category,
		Content:   input.Content,
		Status:    defaultStatus(input.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.templates.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "create", "templates", tmpl.ID, input)
	return tmpl, nil
}

// Update overwrites a template.
func (s *TemplateService) Update(ctx context.Context, actorEmail, id string, input TemplateInput) (*model.Template, error) {
	tmpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		tmpl.Name = name
	}
	if input.Category != "" {
		tmpl.Category = input.Category
	}
	if strings.TrimSpace(input.Content) != "" {
		tmpl.Content = input.Content
	}
	if input.Status != "" {
		tmpl.Status = defaultStatus(input.Status)
	}
	tmpl.UpdatedAt = s.now()

	if err := s.templates.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "update", "templates", tmpl.ID, input)
	return tmpl, nil
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, actorEmail, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "templates", id, nil)
	return nil
}

func defaultStatus(status string) string {
	if status != "draft" && status != "published" {
		return "published"
	}
	return status
}
