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

// ChecklistService provides checklist CRUD.
type ChecklistService struct {
	checklists repository.ChecklistRepository
	audit      *audit.Recorder
	now        func() time.Time
}

// NewChecklistService creates a ChecklistService.
func NewChecklistService(checklists repository.ChecklistRepository, auditor *audit.Recorder) *ChecklistService {
	return &ChecklistService{checklists: checklists, audit: auditor, now: time.Now}
}

// ChecklistInput carries the writable checklist fields.
type ChecklistInput struct {
	Title       string
	Description string
	Items       []model.ChecklistItem
	IsPublished *bool
}

// List returns checklists.
func (s *ChecklistService) List(ctx context.Context, includeUnpublished bool) ([]*model.Checklist, error) {
	return s.checklists.List(ctx, includeUnpublished)
}

// Get returns one checklist by id.
func (s *ChecklistService) Get(ctx context.Context, id string) (*model.Checklist, error) {
	checklist, err := s.checklists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, model.NewNotFoundError("checklist", id)
	}
	return checklist, nil
}

// Create stores a new checklist.
func (s *ChecklistService) Create(ctx context.Context, actorEmail string, input ChecklistInput) (*model.Checklist, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, model.NewInvalidRequestError("title is required")
	}

	now := s.now()
	checklist := &model.Checklist{
		ID:          uuid.NewString(),
		Title:       title,
		Description: input.Description,
		Items:       input.Items,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.IsPublished != nil {
		checklist.IsPublished = *input.IsPublished
	}

	if err := s.checklists.Create(ctx, checklist); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "create", "checklists", checklist.ID, input)
	return checklist, nil
}

// Update overwrites a checklist.
func (s *ChecklistService) Update(ctx context.Context, actorEmail, id string, input ChecklistInput) (*model.Checklist, error) {
	checklist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		checklist.Title = title
	}
	checklist.Description = input.Description
	if input.Items != nil {
		checklist.Items = input.Items
	}
	if input.IsPublished != nil {
		checklist.IsPublished = *input.IsPublished
	}
	checklist.UpdatedAt = s.now()

	if err := s.checklists.Update(ctx, checklist); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "update", "checklists", checklist.ID, input)
	return checklist, nil
}

// Delete removes a checklist.
func (s *ChecklistService) Delete(ctx context.Context, actorEmail, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.checklists.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "checklists", id, nil)
	return nil
}
