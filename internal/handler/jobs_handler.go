package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sweeezy/backend/internal/middleware"
	"github.com/sweeezy/backend/internal/model"
)

// JobSearcher runs one aggregated provider search.
type JobSearcher interface {
	Search(ctx context.Context, query, canton string, page, perPage int) model.JobSearchResult
}

// FavoriteServiceInterface is the service surface for job favorites.
type FavoriteServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.JobFavorite, error)
	Add(ctx context.Context, userID string, listing model.JobListing) (*model.JobFavorite, error)
	Remove(ctx context.Context, id, userID string) error
}

// SearchAnalytics records keywords and serves the aggregation.
type SearchAnalytics interface {
	RecordSearch(ctx context.Context, keyword, canton string)
	TopKeywords(ctx context.Context, limit int) ([]model.KeywordCount, error)
}

// JobsHandler serves job search, favorites and search analytics.
type JobsHandler struct {
	searcher  JobSearcher
	favorites FavoriteServiceInterface
	analytics SearchAnalytics
}

// NewJobsHandler creates a JobsHandler.
func NewJobsHandler(searcher JobSearcher, favorites FavoriteServiceInterface, analytics SearchAnalytics) *JobsHandler {
	return &JobsHandler{searcher: searcher, favorites: favorites, analytics: analytics}
}

type jobListingResponse struct {
	ID             string `json:"id"`
	Source         string `json:"source"`
	Title          string `json:"title"`
	Company        string `json:"company,omitempty"`
	Location       string `json:"location,omitempty"`
	Canton         string `json:"canton,omitempty"`
	URL            string `json:"url,omitempty"`
	PostedAt       string `json:"posted_at,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	Salary         string `json:"salary,omitempty"`
	Snippet        string `json:"snippet,omitempty"`
}

func toJobListingResponse(l model.JobListing) jobListingResponse {
	resp := jobListingResponse{
		ID:             l.ID,
		Source:         l.Source,
		Title:          l.Title,
		Company:        l.Company,
		Location:       l.Location,
		Canton:         l.Canton,
		URL:            l.URL,
		EmploymentType: l.EmploymentType,
		Salary:         l.Salary,
		Snippet:        l.Snippet,
	}
	if l.PostedAt != nil {
		resp.PostedAt = l.PostedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// Search handles GET /api/jobs/search.
func (h *JobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	canton := q.Get("canton")

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("page_size"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	h.analytics.RecordSearch(r.Context(), query, canton)

	result := h.searcher.Search(r.Context(), query, canton, page, perPage)

	items := make([]jobListingResponse, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, toJobListingResponse(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":         items,
		"total":         result.Total,
		"page":          page,
		"page_size":     perPage,
		"source_counts": result.SourceCounts,
	})
}

type favoriteRequest struct {
	ID             string     `json:"id"`
	Source         string     `json:"source"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	Canton         string     `json:"canton"`
	URL            string     `json:"url"`
	PostedAt       *time.Time `json:"posted_at"`
	EmploymentType string     `json:"employment_type"`
	Salary         string     `json:"salary"`
	Snippet        string     `json:"snippet"`
}

type favoriteResponse struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	Company   string `json:"company,omitempty"`
	Location  string `json:"location,omitempty"`
	Canton    string `json:"canton,omitempty"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toFavoriteResponse(f *model.JobFavorite) favoriteResponse {
	return favoriteResponse{
		ID:        f.ID,
		JobID:     f.JobID,
		Source:    f.Source,
		Title:     f.Title,
		Company:   f.Company,
		Location:  f.Location,
		Canton:    f.Canton,
		URL:       f.URL,
		CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListFavorites handles GET /api/jobs/favorites.
func (h *JobsHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	favorites, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]favoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		items = append(items, toFavoriteResponse(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// AddFavorite handles POST /api/jobs/favorites.
func (h *JobsHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req favoriteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fav, err := h.favorites.Add(r.Context(), userID, model.JobListing{
		ID:             req.ID,
		Source:         req.Source,
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		Canton:         req.Canton,
		URL:            req.URL,
		PostedAt:       req.PostedAt,
		EmploymentType: req.EmploymentType,
		Salary:         req.Salary,
		Snippet:        req.Snippet,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFavoriteResponse(fav))
}

// RemoveFavorite handles DELETE /api/jobs/favorites/{id}.
func (h *JobsHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.favorites.Remove(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TopKeywords handles GET /api/admin/jobs/top-keywords.
func (h *JobsHandler) TopKeywords(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	keywords, err := h.analytics.TopKeywords(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	type keywordResponse struct {
		Keyword string `json:"keyword"`
		Canton  string `json:"canton,omitempty"`
		Count   int    `json:"count"`
	}
	items := make([]keywordResponse, 0, len(keywords))
	for _, kc := range keywords {
		items = append(items, keywordResponse{Keyword: kc.Keyword, Canton: kc.Canton, Count: kc.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
