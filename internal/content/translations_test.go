package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeezy/backend/internal/audit"
	"github.com/sweeezy/backend/internal/model"
)

type fakeTranslationRepo struct {
	byID map[string]*model.Translation
}

func newFakeTranslationRepo() *fakeTranslationRepo {
	return &fakeTranslationRepo{byID: map[string]*model.Translation{}}
}

func (f *fakeTranslationRepo) FindByID(_ context.Context, id string) (*model.Translation, error) {
	return f.byID[id], nil
}

func (f *fakeTranslationRepo) Create(_ context.Context, tr *model.Translation) error {
	clone := *tr
	f.byID[tr.ID] = &clone
	return nil
}

func (f *fakeTranslationRepo) Update(_ context.Context, tr *model.Translation) error {
	clone := *tr
	f.byID[tr.ID] = &clone
	return nil
}

func (f *fakeTranslationRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeTranslationRepo) ListByEntity(_ context.Context, entity, entityID string) ([]*model.Translation, error) {
	var out []*model.Translation
	for _, tr := range f.byID {
		if tr.Entity == entity && tr.EntityID == entityID {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (f *fakeTranslationRepo) ListByStatus(_ context.Context, status model.TranslationStatus) ([]*model.Translation, error) {
	var out []*model.Translation
	for _, tr := range f.byID {
		if tr.Status == status {
			out = append(out, tr)
		}
	}
	return out, nil
}

func newTranslationService(repo *fakeTranslationRepo) *TranslationService {
	svc := NewTranslationService(repo, audit.NewRecorder(&fakeAuditRepo{}))
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestTranslationSubmitStartsPending(t *testing.T) {
	svc := newTranslationService(newFakeTranslationRepo())

	tr, err := svc.Submit(context.Background(), "translator@example.com", TranslationInput{
		Entity:   "guides",
		EntityID: "g1",
		Language: "uk",
		Title:    "Пошук житла",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tr.Status != model.TranslationPending {
		t.Errorf("status = %q, want pending", tr.Status)
	}
	if tr.AuthorEmail != "translator@example.com" {
		t.Errorf("author = %q", tr.AuthorEmail)
	}
}

func TestTranslationSubmitRejectsUnknownEntity(t *testing.T) {
	svc := newTranslationService(newFakeTranslationRepo())

	_, err := svc.Submit(context.Background(), "t@x.com", TranslationInput{
		Entity:   "users",
		EntityID: "u1",
		Language: "uk",
	})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
		t.Fatalf("want invalid request error, got %v", err)
	}
}

func TestTranslationReviewWorkflow(t *testing.T) {
	repo := newFakeTranslationRepo()
	svc := newTranslationService(repo)
	ctx := context.Background()

	approvedIn, err := svc.Submit(ctx, "t@x.com", TranslationInput{Entity: "guides", EntityID: "g1", Language: "uk"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rejectedIn, err := svc.Submit(ctx, "t@x.com", TranslationInput{Entity: "guides", EntityID: "g1", Language: "ru"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	approved, err := svc.Review(ctx, "editor@x.com", approvedIn.ID, true)
	if err != nil {
		t.Fatalf("Review approve: %v", err)
	}
	if approved.Status != model.TranslationApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}

	rejected, err := svc.Review(ctx, "editor@x.com", rejectedIn.ID, false)
	if err != nil {
		t.Fatalf("Review reject: %v", err)
	}
	if rejected.Status != model.TranslationRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}

	pending, err := svc.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after review = %d, want 0", len(pending))
	}
}

func TestTranslationReviewRejectsDoubleReview(t *testing.T) {
	svc := newTranslationService(newFakeTranslationRepo())
	ctx := context.Background()

	tr, err := svc.Submit(ctx, "t@x.com", TranslationInput{Entity: "news", EntityID: "n1", Language: "en"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Review(ctx, "editor@x.com", tr.ID, true); err != nil {
		t.Fatalf("first Review: %v", err)
	}

	_, err = svc.Review(ctx, "editor@x.com", tr.ID, false)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidTransition {
		t.Fatalf("want invalid transition error, got %v", err)
	}
}

func TestTranslationListByEntity(t *testing.T) {
	svc := newTranslationService(newFakeTranslationRepo())
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "t@x.com", TranslationInput{Entity: "guides", EntityID: "g1", Language: "uk"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Submit(ctx, "t@x.com", TranslationInput{Entity: "guides", EntityID: "g2", Language: "uk"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	got, err := svc.ListByEntity(ctx, "guides", "g1")
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}
