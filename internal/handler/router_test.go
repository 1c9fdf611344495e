package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sweeezy/backend/internal/middleware"
	"github.com/sweeezy/backend/internal/model"
)

// --- auth stubs for full-router tests ---

type stubVerifier struct {
	tokens map[string]string // token -> user id
}

func (s *stubVerifier) Verify(tokenString, expectedType string) (string, error) {
	if userID, ok := s.tokens[tokenString]; ok {
		return userID, nil
	}
	return "", fmt.Errorf("invalid token")
}

type stubUserFinder struct {
	users map[string]*model.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.users[id], nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	expireAt := time.Now().Add(30 * 24 * time.Hour)
	users := map[string]*model.User{
		"viewer-1": {
			ID: "viewer-1", Email: "viewer@example.com", IsActive: true,
			Role: model.RoleViewer, SubscriptionStatus: model.SubscriptionFree,
		},
		"premium-1": {
			ID: "premium-1", Email: "premium@example.com", IsActive: true,
			Role: model.RoleViewer, SubscriptionStatus: model.SubscriptionPremium,
			SubscriptionExpireAt: &expireAt,
		},
		"admin-1": {
			ID: "admin-1", Email: "admin@sweeezy.app", IsActive: true,
			Role: model.RoleAdmin,
		},
	}

	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(limiter.Stop)

	deps := &RouterDeps{
		TokenVerifier: &stubVerifier{tokens: map[string]string{
			"viewer-token":  "viewer-1",
			"premium-token": "premium-1",
			"admin-token":   "admin-1",
		}},
		UserFinder:        &stubUserFinder{users: users},
		CORSAllowedOrigin: "*",
		RateLimiter:       limiter,
		AuthService:       &mockAuthService{},
		NewsService:       &mockNewsService{},
		Importer:          &mockImporter{},
		JobSearcher:       &mockJobSearcher{},
		Favorites:         &mockFavoriteService{},
		Analytics:         &mockSearchAnalytics{},
		Billing: &mockBillingService{
			effectiveStatusFn: func(_ context.Context, u *model.User) (model.SubscriptionStatus, *time.Time, error) {
				return u.SubscriptionStatus, u.SubscriptionExpireAt, nil
			},
		},
		Checkout:          &mockCheckoutStarter{},
		CVSuggester:       &mockCVSuggester{},
	}
	return NewRouter(deps)
}

func doRequest(t *testing.T, router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_PublicRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/api/news",
		"/api/jobs/search?query=it",
	}
	for _, path := range paths {
		w := doRequest(t, router, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

func TestRouter_ProtectedRouteWithoutToken_ReturnsUnauthorized(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/subscriptions/current", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_ProtectedRouteWithToken_Succeeds(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/subscriptions/current", "viewer-token")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_FavoritesRequirePremium(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/jobs/favorites/", "viewer-token")
	if w.Code != http.StatusPaymentRequired {
		t.Errorf("free user status = %d, want %d", w.Code, http.StatusPaymentRequired)
	}

	w = doRequest(t, router, http.MethodGet, "/api/jobs/favorites/", "premium-token")
	if w.Code != http.StatusOK {
		t.Errorf("premium user status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_AdminRoutesRequireRole(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/admin/news/", "viewer-token")
	if w.Code != http.StatusForbidden {
		t.Errorf("viewer status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doRequest(t, router, http.MethodGet, "/api/admin/news/", "admin-token")
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want %d", w.Code, http.StatusOK)
	}

	w = doRequest(t, router, http.MethodPost, "/api/admin/cv-suggest", "viewer-token")
	if w.Code != http.StatusForbidden {
		t.Errorf("viewer cv-suggest status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRouter_WebhookNeedsNoToken(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/webhooks/billing", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/news", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("expected Access-Control-Allow-Origin header")
	}
}
