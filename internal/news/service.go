// Package news manages articles and the administrator-managed feed
// subscriptions that populate them.
package news

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/audit"
	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/repository"
)

// URLValidator rejects URLs that must not be fetched (bad scheme, private
// address). security.SSRFGuardService satisfies this.
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// Service provides article and feed CRUD with audit logging on admin
// mutations.
type Service struct {
	articles  repository.ArticleRepository
	feeds     repository.RSSFeedRepository
	audit     *audit.Recorder
	validator URLValidator
	now       func() time.Time
}

// NewService creates a news Service.
func NewService(
	articles repository.ArticleRepository,
	feeds repository.RSSFeedRepository,
	auditor *audit.Recorder,
	validator URLValidator,
) *Service {
	return &Service{
		articles:  articles,
		feeds:     feeds,
		audit:     auditor,
		validator: validator,
		now:       time.Now,
	}
}

// ArticleInput carries the writable article fields.
type ArticleInput struct {
	Title       string
	Summary     string
	Content     string
	URL         string
	Source      string
	Language    string
	Status      model.ArticleStatus
	PublishedAt *time.Time
	ImageURL    string
}

// ListArticles returns published articles by default; includeDrafts widens
// the listing for editors.
func (s *Service) ListArticles(ctx context.Context, language string, status model.ArticleStatus, includeDrafts bool, limit int) ([]*model.Article, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.articles.List(ctx, language, status, includeDrafts, limit)
}

// GetArticle returns one article by id.
func (s *Service) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, model.NewNotFoundError("article", id)
	}
	return article, nil
}

// CreateArticle stores a manually written article.
func (s *Service) CreateArticle(ctx context.Context, actorEmail string, input ArticleInput) (*model.Article, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, model.NewInvalidRequestError("title is required")
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, model.NewInvalidRequestError("url is required")
	}

	existing, err := s.articles.FindByURL(ctx, input.URL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewInvalidRequestError("an article with this URL already exists")
	}

	now := s.now()
	publishedAt := now
	if input.PublishedAt != nil {
		publishedAt = *input.PublishedAt
	}
	status := input.Status
	if status == "" {
		status = model.ArticleStatusPublished
	}
	source := input.Source
	if source == "" {
		source = "Sweeezy"
	}
	language := input.Language
	if language == "" {
		language = "uk"
	}

	article := &model.Article{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Summary:     input.Summary,
		Content:     input.Content,
		URL:         strings.TrimSpace(input.URL),
		Source:      source,
		Language:    language,
		Status:      status,
		PublishedAt: publishedAt,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorEmail, "create", "news", article.ID, input)
	return article, nil
}

// UpdateArticle overwrites an article's writable fields.
func (s *Service) UpdateArticle(ctx context.Context, actorEmail, id string, input ArticleInput) (*model.Article, error) {
	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) != "" {
		article.Title = strings.TrimSpace(input.Title)
	}
	article.Summary = input.Summary
	article.Content = input.Content
	if input.Source != "" {
		article.Source = input.Source
	}
	if input.Language != "" {
		article.Language = input.Language
	}
	if input.Status != "" {
		article.Status = input.Status
	}
	if input.PublishedAt != nil {
		article.PublishedAt = *input.PublishedAt
	}
	article.ImageURL = input.ImageURL
	article.UpdatedAt = s.now()

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorEmail, "update", "news", article.ID, input)
	return article, nil
}

// DeleteArticle removes an article.
func (s *Service) DeleteArticle(ctx context.Context, actorEmail, id string) error {
	if _, err := s.GetArticle(ctx, id); err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "news", id, nil)
	return nil
}

// FeedInput carries the writable feed subscription fields.
type FeedInput struct {
	URL            string
	Language       string
	Status         model.ArticleStatus
	Enabled        *bool
	MaxItems       int
	DownloadImages *bool
}

// ListFeeds returns every registered feed.
func (s *Service) ListFeeds(ctx context.Context) ([]*model.RSSFeed, error) {
	return s.feeds.List(ctx)
}

// GetFeed returns one feed by id.
func (s *Service) GetFeed(ctx context.Context, id string) (*model.RSSFeed, error) {
	feed, err := s.feeds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if feed == nil {
		return nil, model.NewNotFoundError("feed", id)
	}
	return feed, nil
}

// CreateFeed registers a feed subscription. The URL is validated against
// the SSRF guard and must not collide with an existing feed.
func (s *Service) CreateFeed(ctx context.Context, actorEmail string, input FeedInput) (*model.RSSFeed, error) {
	feedURL := strings.TrimSpace(input.URL)
	if feedURL == "" {
		return nil, model.NewInvalidURLError("feed URL is required")
	}
	if err := s.validator.ValidateURL(feedURL); err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}

	existing, err := s.feeds.FindByURL(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewDuplicateFeedError(feedURL)
	}

	now := s.now()
	feed := &model.RSSFeed{
		ID:             uuid.NewString(),
		URL:            feedURL,
		Language:       defaultString(input.Language, "uk"),
		Status:         input.Status,
		Enabled:        true,
		MaxItems:       input.MaxItems,
		DownloadImages: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if feed.Status == "" {
		feed.Status = model.ArticleStatusPublished
	}
	if feed.MaxItems <= 0 {
		feed.MaxItems = 20
	}
	if input.Enabled != nil {
		feed.Enabled = *input.Enabled
	}
	if input.DownloadImages != nil {
		feed.DownloadImages = *input.DownloadImages
	}

	if err := s.feeds.Create(ctx, feed); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorEmail, "create", "rss_feeds", feed.ID, input)
	return feed, nil
}

// UpdateFeed overwrites a feed's settings.
func (s *Service) UpdateFeed(ctx context.Context, actorEmail, id string, input FeedInput) (*model.RSSFeed, error) {
	feed, err := s.GetFeed(ctx, id)
	if err != nil {
		return nil, err
	}

	if url := strings.TrimSpace(input.URL); url != "" && url != feed.URL {
		if err := s.validator.ValidateURL(url); err != nil {
			return nil, model.NewInvalidURLError(err.Error())
		}
		other, err := s.feeds.FindByURL(ctx, url)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != feed.ID {
			return nil, model.NewDuplicateFeedError(url)
		}
		feed.URL = url
	}
	if input.Language != "" {
		feed.Language = input.Language
	}
	if input.Status != "" {
		feed.Status = input.Status
	}
	if input.Enabled != nil {
		feed.Enabled = *input.Enabled
	}
	if input.MaxItems > 0 {
		feed.MaxItems = input.MaxItems
	}
	if input.DownloadImages != nil {
		feed.DownloadImages = *input.DownloadImages
	}
	feed.UpdatedAt = s.now()

	if err := s.feeds.Update(ctx, feed); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorEmail, "update", "rss_feeds", feed.ID, input)
	return feed, nil
}

// DeleteFeed removes a feed subscription.
func (s *Service) DeleteFeed(ctx context.Context, actorEmail, id string) error {
	if _, err := s.GetFeed(ctx, id); err != nil {
		return err
	}
	if err := s.feeds.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actorEmail, "delete", "rss_feeds", id, nil)
	return nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
