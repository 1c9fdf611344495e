package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeezy/backend/internal/model"
)

type fakeFavoriteRepo struct {
	byID map[string]*model.JobFavorite
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{byID: map[string]*model.JobFavorite{}}
}

func (f *fakeFavoriteRepo) ListByUserID(_ context.Context, userID string) ([]*model.JobFavorite, error) {
	var out []*model.JobFavorite
	for _, fav := range f.byID {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func (f *fakeFavoriteRepo) Create(_ context.Context, fav *model.JobFavorite) error {
	clone := *fav
	f.byID[fav.ID] = &clone
	return nil
}

func (f *fakeFavoriteRepo) Delete(_ context.Context, id, userID string) (bool, error) {
	fav, ok := f.byID[id]
	if !ok || fav.UserID != userID {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

type fakeSearchEventRepo struct {
	events []*model.JobSearchEvent
}

func (f *fakeSearchEventRepo) Create(_ context.Context, event *model.JobSearchEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeSearchEventRepo) TopKeywords(_ context.Context, limit int) ([]model.KeywordCount, error) {
	counts := map[string]*model.KeywordCount{}
	for _, e := range f.events {
		key := e.Keyword + "|" + e.Canton
		if c, ok := counts[key]; ok {
			c.Count++
			continue
		}
		counts[key] = &model.KeywordCount{Keyword: e.Keyword, Canton: e.Canton, Count: 1}
	}
	var out []model.KeywordCount
	for _, c := range counts {
		out = append(out, *c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestFavoriteAddSnapshotsListing(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := NewFavoriteService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	fav, err := svc.Add(context.Background(), "u1", model.JobListing{
		ID:       "indeed:123",
		Source:   "indeed",
		Title:    "Pflegefachperson",
		Company:  "Spital Zürich",
		Location: "Zürich",
		Canton:   "ZH",
		URL:      "https://example.com/job/123",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if fav.JobID != "indeed:123" || fav.Title != "Pflegefachperson" || fav.Canton != "ZH" {
		t.Errorf("snapshot mismatch: %+v", fav)
	}

	list, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}

func TestFavoriteAddRejectsEmptyListing(t *testing.T) {
	svc := NewFavoriteService(newFakeFavoriteRepo())

	_, err := svc.Add(context.Background(), "u1", model.JobListing{})
	if err == nil {
		t.Fatal("want error for empty listing id")
	}
}

func TestFavoriteRemoveScopedToOwner(t *testing.T) {
	repo := newFakeFavoriteRepo()
	svc := NewFavoriteService(repo)
	ctx := context.Background()

	fav, err := svc.Add(ctx, "u1", model.JobListing{ID: "rav:9"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	err = svc.Remove(ctx, fav.ID, "u2")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotFound {
		t.Fatalf("want not found for other user, got %v", err)
	}

	if err := svc.Remove(ctx, fav.ID, "u1"); err != nil {
		t.Fatalf("Remove by owner: %v", err)
	}
}

func TestAnalyticsRecordSearchNormalizes(t *testing.T) {
	repo := &fakeSearchEventRepo{}
	svc := NewAnalyticsService(repo)
	ctx := context.Background()

	svc.RecordSearch(ctx, "  Koch  ", "BE")
	svc.RecordSearch(ctx, "", "ZH")
	svc.RecordSearch(ctx, "   ", "")

	if len(repo.events) != 1 {
		t.Fatalf("recorded events = %d, want 1", len(repo.events))
	}
	if repo.events[0].Keyword != "koch" {
		t.Errorf("keyword = %q, want koch", repo.events[0].Keyword)
	}
}

func TestAnalyticsTopKeywordsDefaultLimit(t *testing.T) {
	repo := &fakeSearchEventRepo{}
	svc := NewAnalyticsService(repo)
	ctx := context.Background()

	svc.RecordSearch(ctx, "koch", "BE")
	svc.RecordSearch(ctx, "Koch", "BE")
	svc.RecordSearch(ctx, "pflege", "ZH")

	got, err := svc.TopKeywords(ctx, 0)
	if err != nil {
		t.Fatalf("TopKeywords: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	for _, kc := range got {
		if kc.Keyword == "koch" && kc.Count != 2 {
			t.Errorf("koch count = %d, want 2", kc.Count)
		}
	}
}
