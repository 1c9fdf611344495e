package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sweeezy/backend/internal/middleware"
	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/news"
)

// NewsServiceInterface is the service surface the news handler needs.
type NewsServiceInterface interface {
	ListArticles(ctx context.Context, language string, status model.ArticleStatus, includeDrafts bool, limit int) ([]*model.Article, error)
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	CreateArticle(ctx context.Context, actorEmail string, input news.ArticleInput) (*model.Article, error)
	UpdateArticle(ctx context.Context, actorEmail, id string, input news.ArticleInput) (*model.Article, error)
	DeleteArticle(ctx context.Context, actorEmail, id string) error

	ListFeeds(ctx context.Context) ([]*model.RSSFeed, error)
	GetFeed(ctx context.Context, id string) (*model.RSSFeed, error)
	CreateFeed(ctx context.Context, actorEmail string, input news.FeedInput) (*model.RSSFeed, error)
	UpdateFeed(ctx context.Context, actorEmail, id string, input news.FeedInput) (*model.RSSFeed, error)
	DeleteFeed(ctx context.Context, actorEmail, id string) error
}

// FeedImporter triggers a feed import run. Defined as a subset of
// importer.Importer.
type FeedImporter interface {
	ImportFeed(ctx context.Context, feed *model.RSSFeed) model.ImportResult
}

// NewsHandler serves the public article endpoints and the admin article and
// feed management endpoints.
type NewsHandler struct {
	service  NewsServiceInterface
	importer FeedImporter
}

// NewNewsHandler creates a NewsHandler.
func NewNewsHandler(service NewsServiceInterface, importer FeedImporter) *NewsHandler {
	return &NewsHandler{service: service, importer: importer}
}

type articleResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Language    string `json:"language"`
	Status      string `json:"status"`
	PublishedAt string `json:"published_at"`
	ImageURL    string `json:"image_url,omitempty"`
}

func toArticleResponse(a *model.Article) articleResponse {
	return articleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		Content:     a.Content,
		URL:         a.URL,
		Source:      a.Source,
		Language:    a.Language,
		Status:      string(a.Status),
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		ImageURL:    a.ImageURL,
	}
}

type articleRequest struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	Language    string     `json:"language"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	ImageURL    string     `json:"image_url"`
}

func (req articleRequest) toInput() news.ArticleInput {
	return news.ArticleInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		URL:         req.URL,
		Source:      req.Source,
		Language:    req.Language,
		Status:      model.ArticleStatus(req.Status),
		PublishedAt: req.PublishedAt,
		ImageURL:    req.ImageURL,
	}
}

// ListArticles handles GET /api/news. Drafts are only visible when the
// caller asks for them through the admin routes.
func (h *NewsHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	h.listArticles(w, r, false)
}

// ListArticlesAdmin handles GET /api/admin/news.
func (h *NewsHandler) ListArticlesAdmin(w http.ResponseWriter, r *http.Request) {
	h.listArticles(w, r, true)
}

func (h *NewsHandler) listArticles(w http.ResponseWriter, r *http.Request, includeDrafts bool) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	articles, err := h.service.ListArticles(r.Context(), q.Get("language"), model.ArticleStatus(q.Get("status")), includeDrafts, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		items = append(items, toArticleResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// GetArticle handles GET /api/news/{id}.
func (h *NewsHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

// CreateArticle handles POST /api/admin/news.
func (h *NewsHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req articleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	article, err := h.service.CreateArticle(r.Context(), actor, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toArticleResponse(article))
}

// UpdateArticle handles PUT /api/admin/news/{id}.
func (h *NewsHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req articleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	article, err := h.service.UpdateArticle(r.Context(), actor, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

// DeleteArticle handles DELETE /api/admin/news/{id}.
func (h *NewsHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteArticle(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type feedResponse struct {
	ID             string `json:"id"`
	URL            string `json:"url"`
	Language       string `json:"language"`
	Status         string `json:"status"`
	Enabled        bool   `json:"enabled"`
	MaxItems       int    `json:"max_items"`
	DownloadImages bool   `json:"download_images"`
	LastImportedAt string `json:"last_imported_at,omitempty"`
}

func toFeedResponse(f *model.RSSFeed) feedResponse {
	resp := feedResponse{
		ID:             f.ID,
		URL:            f.URL,
		Language:       f.Language,
		Status:         string(f.Status),
		Enabled:        f.Enabled,
		MaxItems:       f.MaxItems,
		DownloadImages: f.DownloadImages,
	}
	if f.LastImportedAt != nil {
		resp.LastImportedAt = f.LastImportedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

type feedRequest struct {
	URL            string `json:"url"`
	Language       string `json:"language"`
	Status         string `json:"status"`
	Enabled        *bool  `json:"enabled"`
	MaxItems       int    `json:"max_items"`
	DownloadImages *bool  `json:"download_images"`
}

func (req feedRequest) toInput() news.FeedInput {
	return news.FeedInput{
		URL:            req.URL,
		Language:       req.Language,
		Status:         model.ArticleStatus(req.Status),
		Enabled:        req.Enabled,
		MaxItems:       req.MaxItems,
		DownloadImages: req.DownloadImages,
	}
}

// ListFeeds handles GET /api/admin/feeds.
func (h *NewsHandler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.service.ListFeeds(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]feedResponse, 0, len(feeds))
	for _, f := range feeds {
		items = append(items, toFeedResponse(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// CreateFeed handles POST /api/admin/feeds.
func (h *NewsHandler) CreateFeed(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req feedRequest
	if !decodeBody(w, r, &req) {
		return
	}

	feed, err := h.service.CreateFeed(r.Context(), actor, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFeedResponse(feed))
}

// UpdateFeed handles PUT /api/admin/feeds/{id}.
func (h *NewsHandler) UpdateFeed(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	var req feedRequest
	if !decodeBody(w, r, &req) {
		return
	}

	feed, err := h.service.UpdateFeed(r.Context(), actor, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedResponse(feed))
}

// DeleteFeed handles DELETE /api/admin/feeds/{id}.
func (h *NewsHandler) DeleteFeed(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorEmail(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteFeed(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TriggerImport handles POST /api/admin/feeds/{id}/import. The run never
// fails hard; the response carries the per-run counters.
func (h *NewsHandler) TriggerImport(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.GetFeed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result := h.importer.ImportFeed(r.Context(), feed)
	writeJSON(w, http.StatusOK, map[string]int{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	})
}

// actorEmail returns the authenticated user's email for audit attribution.
func actorEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return "", false
	}
	return user.Email, true
}
