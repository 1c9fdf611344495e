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

// GlossaryService provides glossary term CRUD.
type GlossaryService struct {
	terms repository.GlossaryRepository
	audit *audit.Recorder
	now   func() time.Time
}

// NewGlossaryService creates a GlossaryService.
func NewGlossaryService(terms repository.GlossaryRepository, auditor *audit.Recorder) *GlossaryService {
	return &GlossaryService{terms: terms, audit: auditor, now: time.Now}
}

// GlossaryInput carries the writable glossary fields.
type GlossaryInput struct {
	Term        string
	UK          string
	RU          string
	EN          string
	Description string
}

// List returns all terms alphabetically.
func (s *GlossaryService) List(ctx context.Context) ([]*model.GlossaryTerm, error) {
	return s.terms.List(ctx)
}

// Get returns one term by id.
func (s *GlossaryService) Get(ctx context.Context, id string) (*model.GlossaryTerm, error) {
	term, err := s.terms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, model.NewNotFoundError("glossary term", id)
	}
	return term, nil
}

// Create stores a new term. Source terms are unique.
func (s *GlossaryService) Create(ctx context.Context, actorEmail string, input GlossaryInput) (*model.GlossaryTerm, error) {
	source := strings.TrimSpace(input.Term)
	if source == "" {
		return nil, model.NewInvalidRequestError("term is required")
	}

	existing, err := s.terms.FindByTerm(ctx, source)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewInvalidRequestError("this term already exists")
	}

	now := s.now()
	term := &model.GlossaryTerm{
		ID:          uuid.NewString(),
		Term:        source,
		UK:          input.UK,
		RU:          input.RU,
		EN:          input.EN,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.terms.Create(ctx, term); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "create", "glossary_terms", term.ID, input)
	return term, nil
}

// Update overwrites a term.
func (s *GlossaryService) Update(ctx context.Context, actorEmail, id string, input GlossaryInput) (*model.GlossaryTerm, error) {
	term, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if source := strings.TrimSpace(input.Term); source != "" {
		term.Term = source
	}
	term.UK = input.UK
	term.RU = input.RU
	term.EN = input.EN
	term.Description = input.Description
	term.UpdatedAt = s.now()

	if err := s.terms.Update(ctx, term); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actorEmail, "update", "glossary_terms", term.ID, input)
	return term, nil
}

// Delete removes a term.
func (s *GlossaryService) Delete(ctx context.Context, actorEmail, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.terms.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "glossary_terms", id, nil)
	return nil
}
