package news

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sweeezy/backend/internal/audit"
	"github.com/sweeezy/backend/internal/model"
)

type fakeArticleRepo struct {
	byID map[string]*model.Article
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byID: map[string]*model.Article{}}
}

func (f *fakeArticleRepo) FindByID(_ context.Context, id string) (*model.Article, error) {
	return f.byID[id], nil
}

func (f *fakeArticleRepo) FindByURL(_ context.Context, url string) (*model.Article, error) {
	for _, a := range f.byID {
		if a.URL == url {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeArticleRepo) Create(_ context.Context, article *model.Article) error {
	clone := *article
	f.byID[article.ID] = &clone
	return nil
}

func (f *fakeArticleRepo) Update(_ context.Context, article *model.Article) error {
	clone := *article
	f.byID[article.ID] = &clone
	return nil
}

func (f *fakeArticleRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeArticleRepo) List(_ context.Context, language string, status model.ArticleStatus, includeDrafts bool, limit int) ([]*model.Article, error) {
	var out []*model.Article
	for _, a := range f.byID {
		if language != "" && a.Language != language {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		if !includeDrafts && status == "" && a.Status != model.ArticleStatusPublished {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeFeedRepo struct {
	byID map[string]*model.RSSFeed
}

func newFakeFeedRepo() *fakeFeedRepo {
	return &fakeFeedRepo{byID: map[string]*model.RSSFeed{}}
}

func (f *fakeFeedRepo) FindByID(_ context.Context, id string) (*model.RSSFeed, error) {
	return f.byID[id], nil
}

func (f *fakeFeedRepo) FindByURL(_ context.Context, url string) (*model.RSSFeed, error) {
	for _, feed := range f.byID {
		if feed.URL == url {
			return feed, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedRepo) Create(_ context.Context, feed *model.RSSFeed) error {
	clone := *feed
	f.byID[feed.ID] = &clone
	return nil
}

func (f *fakeFeedRepo) Update(_ context.Context, feed *model.RSSFeed) error {
	clone := *feed
	f.byID[feed.ID] = &clone
	return nil
}

func (f *fakeFeedRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeFeedRepo) List(_ context.Context) ([]*model.RSSFeed, error) {
	var out []*model.RSSFeed
	for _, feed := range f.byID {
		out = append(out, feed)
	}
	return out, nil
}

func (f *fakeFeedRepo) ListEnabled(_ context.Context) ([]*model.RSSFeed, error) {
	var out []*model.RSSFeed
	for _, feed := range f.byID {
		if feed.Enabled {
			out = append(out, feed)
		}
	}
	return out, nil
}

func (f *fakeFeedRepo) MarkImported(_ context.Context, id string, at time.Time) error {
	if feed, ok := f.byID[id]; ok {
		feed.LastImportedAt = &at
	}
	return nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeValidator struct {
	blocked map[string]bool
}

func (f *fakeValidator) ValidateURL(url string) error {
	if f.blocked[url] {
		return fmt.Errorf("url %s is not allowed", url)
	}
	return nil
}

func newTestService(articles *fakeArticleRepo, feeds *fakeFeedRepo, logs *fakeAuditRepo, validator *fakeValidator) *Service {
	if validator == nil {
		validator = &fakeValidator{}
	}
	svc := NewService(articles, feeds, audit.NewRecorder(logs), validator)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateArticleDefaults(t *testing.T) {
	articles := newFakeArticleRepo()
	svc := newTestService(articles, newFakeFeedRepo(), &fakeAuditRepo{}, nil)

	article, err := svc.CreateArticle(context.Background(), "editor@example.com", ArticleInput{
		Title: "Manual post",
		URL:   "https://example.com/a",
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if article.Status != model.ArticleStatusPublished {
		t.Errorf("status = %q, want published", article.Status)
	}
	if article.Language != "uk" {
		t.Errorf("language = %q, want uk", article.Language)
	}
	if article.Source != "Sweeezy" {
		t.Errorf("source = %q, want Sweeezy", article.Source)
	}
	if article.PublishedAt.IsZero() {
		t.Error("published_at should default to now")
	}
}

func TestCreateArticleRejectsDuplicateURL(t *testing.T) {
	articles := newFakeArticleRepo()
	svc := newTestService(articles, newFakeFeedRepo(), &fakeAuditRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.CreateArticle(ctx, "e@x.com", ArticleInput{Title: "One", URL: "https://example.com/a"}); err != nil {
		t.Fatalf("first CreateArticle: %v", err)
	}
	_, err := svc.CreateArticle(ctx, "e@x.com", ArticleInput{Title: "Two", URL: "https://example.com/a"})
	if err == nil {
		t.Fatal("want error for duplicate URL")
	}
}

func TestDeleteArticleRecordsAudit(t *testing.T) {
	articles := newFakeArticleRepo()
	logs := &fakeAuditRepo{}
	svc := newTestService(articles, newFakeFeedRepo(), logs, nil)
	ctx := context.Background()

	article, err := svc.CreateArticle(ctx, "admin@example.com", ArticleInput{Title: "Temp", URL: "https://example.com/t"})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if err := svc.DeleteArticle(ctx, "admin@example.com", article.ID); err != nil {
		t.Fatalf("DeleteArticle: %v", err)
	}

	var found bool
	for _, e := range logs.entries {
		if e.Action == "delete" && e.Entity == "news" && e.EntityID == article.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected an audit entry for the deletion")
	}
}

func TestListArticlesClampsLimit(t *testing.T) {
	articles := newFakeArticleRepo()
	svc := newTestService(articles, newFakeFeedRepo(), &fakeAuditRepo{}, nil)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := svc.CreateArticle(ctx, "e@x.com", ArticleInput{
			Title: fmt.Sprintf("Article %d", i),
			URL:   fmt.Sprintf("https://example.com/%d", i),
		})
		if err != nil {
			t.Fatalf("CreateArticle %d: %v", i, err)
		}
	}

	got, err := svc.ListArticles(ctx, "", "", false, 0)
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(got) != 50 {
		t.Errorf("len = %d, want default limit 50", len(got))
	}
}

func TestCreateFeedValidatesURL(t *testing.T) {
	feeds := newFakeFeedRepo()
	validator := &fakeValidator{blocked: map[string]bool{"http://169.254.169.254/feed": true}}
	svc := newTestService(newFakeArticleRepo(), feeds, &fakeAuditRepo{}, validator)

	_, err := svc.CreateFeed(context.Background(), "admin@x.com", FeedInput{URL: "http://169.254.169.254/feed"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidURL {
		t.Fatalf("want invalid url error, got %v", err)
	}
}

func TestCreateFeedDefaults(t *testing.T) {
	feeds := newFakeFeedRepo()
	svc := newTestService(newFakeArticleRepo(), feeds, &fakeAuditRepo{}, nil)

	feed, err := svc.CreateFeed(context.Background(), "admin@x.com", FeedInput{URL: "https://example.com/rss"})
	if err != nil {
		t.Fatalf("CreateFeed: %v", err)
	}
	if !feed.Enabled {
		t.Error("new feed should default to enabled")
	}
	if feed.MaxItems != 20 {
		t.Errorf("max items = %d, want 20", feed.MaxItems)
	}
	if !feed.DownloadImages {
		t.Error("download images should default to true")
	}
	if feed.Status != model.ArticleStatusPublished {
		t.Errorf("status = %q, want published", feed.Status)
	}
}

func TestCreateFeedRejectsDuplicate(t *testing.T) {
	feeds := newFakeFeedRepo()
	svc := newTestService(newFakeArticleRepo(), feeds, &fakeAuditRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.CreateFeed(ctx, "a@x.com", FeedInput{URL: "https://example.com/rss"}); err != nil {
		t.Fatalf("first CreateFeed: %v", err)
	}
	_, err := svc.CreateFeed(ctx, "a@x.com", FeedInput{URL: "https://example.com/rss"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateFeed {
		t.Fatalf("want duplicate feed error, got %v", err)
	}
}

func TestUpdateFeedRevalidatesChangedURL(t *testing.T) {
	feeds := newFakeFeedRepo()
	validator := &fakeValidator{blocked: map[string]bool{"http://10.0.0.1/rss": true}}
	svc := newTestService(newFakeArticleRepo(), feeds, &fakeAuditRepo{}, validator)
	ctx := context.Background()

	feed, err := svc.CreateFeed(ctx, "a@x.com", FeedInput{URL: "https://example.com/rss"})
	if err != nil {
		t.Fatalf("CreateFeed: %v", err)
	}

	_, err = svc.UpdateFeed(ctx, "a@x.com", feed.ID, FeedInput{URL: "http://10.0.0.1/rss"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidURL {
		t.Fatalf("want invalid url error, got %v", err)
	}

	disabled := false
	updated, err := svc.UpdateFeed(ctx, "a@x.com", feed.ID, FeedInput{Enabled: &disabled})
	if err != nil {
		t.Fatalf("UpdateFeed: %v", err)
	}
	if updated.Enabled {
		t.Error("feed should be disabled")
	}
}
