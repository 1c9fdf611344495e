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

// translatableEntities are the content types a translation may target.
var translatableEntities = map[string]bool{
	"guides":     true,
	"templates":  true,
	"checklists": true,
	"news":       true,
}

// TranslationService manages the translation submission/review workflow.
// Translators submit pending translations; editors approve or reject them.
type TranslationService struct {
	translations repository.TranslationRepository
	audit        *audit.Recorder
	now          func() time.Time
}

// NewTranslationService creates a TranslationService.
func NewTranslationService(translations repository.TranslationRepository, auditor *audit.Recorder) *TranslationService {
	return &TranslationService{translations: translations, audit: auditor, now: time.Now}
}

// TranslationInput carries a translation submission.
type TranslationInput struct {
	Entity      string
	EntityID    string
	Language    string
	Title       string
	Description string
	Content     string
}

// ListByEntity returns translations submitted for one content entity.
func (s *TranslationService) ListByEntity(ctx context.Context, entity, entityID string) ([]*model.Translation, error) {
	return s.translations.ListByEntity(ctx, entity, entityID)
}

// ListPending returns translations waiting for review.
func (s *TranslationService) ListPending(ctx context.Context) ([]*model.Translation, error) {
	return s.translations.ListByStatus(ctx, model.TranslationPending)
}

// Get returns one translation by id.
func (s *TranslationService) Get(ctx context.Context, id string) (*model.Translation, error) {
	tr, err := s.translations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, model.NewNotFoundError("translation", id)
	}
	return tr, nil
}

// Submit stores a new pending translation.
func (s *TranslationService) Submit(ctx context.Context, authorEmail string, input TranslationInput) (*model.Translation, error) {
	if !translatableEntities[input.Entity] {
		return nil, model.NewInvalidRequestError("unknown entity type")
	}
	if strings.TrimSpace(input.EntityID) == "" {
		return nil, model.NewInvalidRequestError("entity id is required")
	}
	if strings.TrimSpace(input.Language) == "" {
		return nil, model.NewInvalidRequestError("language is required")
	}

	now := s.now()
	tr := &model.Translation{
		ID:          uuid.NewString(),
		Entity:      input.Entity,
		EntityID:    input.EntityID,
		Language:    input.Language,
		Status:      model.TranslationPending,
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		AuthorEmail: authorEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.translations.Create(ctx, tr); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, authorEmail, "create", "translations", tr.ID, input)
	return tr, nil
}

// Review sets a pending translation to approved or rejected. Reviewed
// translations cannot be re-reviewed.
func (s *TranslationService) Review(ctx context.Context, reviewerEmail, id string, approve bool) (*model.Translation, error) {
	tr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr.Status != model.TranslationPending {
		return nil, &model.APIError{
			Code:     model.ErrCodeInvalidTransition,
			Message:  "Only pending translations can be reviewed.",
			Category: "content",
			Action:   "Reload the review queue.",
		}
	}

	if approve {
		tr.Status = model.TranslationApproved
	} else {
		tr.Status = model.TranslationRejected
	}
	tr.UpdatedAt = s.now()

	if err := s.translations.Update(ctx, tr); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, reviewerEmail, "update", "translations", tr.ID, map[string]any{"status": tr.Status})
	return tr, nil
}

// Delete removes a translation.
func (s *TranslationService) Delete(ctx context.Context, actorEmail, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.translations.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "translations", id, nil)
	return nil
}
