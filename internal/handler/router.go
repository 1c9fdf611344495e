package handler

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeezy/backend/internal/appointment"
	"github.com/sweeezy/backend/internal/content"
	"github.com/sweeezy/backend/internal/live"
	"github.com/sweeezy/backend/internal/metrics"
	"github.com/sweeezy/backend/internal/middleware"
	"github.com/sweeezy/backend/internal/model"
	"github.com/sweeezy/backend/internal/remoteconfig"
)

// RouterDeps bundles everything NewRouter needs.
type RouterDeps struct {
	// middleware
	TokenVerifier     middleware.TokenVerifier
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	RequestLogger     func(next http.Handler) http.Handler

	// services
	AuthService    AuthServiceInterface
	NewsService    NewsServiceInterface
	Importer       FeedImporter
	JobSearcher    JobSearcher
	Favorites      FavoriteServiceInterface
	Analytics      SearchAnalytics
	Billing        BillingServiceInterface
	Checkout       CheckoutStarter
	Guides         *content.GuideService
	Checklists     *content.ChecklistService
	Templates      *content.TemplateService
	Glossary       *content.GlossaryService
	Translations   *content.TranslationService
	Appointments   *appointment.Service
	Live           *live.Service
	RemoteConfig   *remoteconfig.Store
	CVSuggester    CVSuggester
	MetricGatherer prometheus.Gatherer

	// static image mirror
	UploadDir string
}

// NewRouter builds the chi router with the full middleware chain.
//
// Middleware order: Recovery → CORS → RequestLogger, then per-group
// Auth → RateLimit(General) and the role/premium gates.
// The webhook, health, metrics and public read routes stay outside the
// authenticated chain.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.RequestLogger != nil {
		r.Use(deps.RequestLogger)
	}

	authHandler := NewAuthHandler(deps.AuthService)
	newsHandler := NewNewsHandler(deps.NewsService, deps.Importer)
	jobsHandler := NewJobsHandler(deps.JobSearcher, deps.Favorites, deps.Analytics)
	subHandler := NewSubscriptionHandler(deps.Billing, deps.Checkout)
	contentHandler := NewContentHandler(deps.Guides, deps.Checklists, deps.Templates, deps.Glossary, deps.Translations)
	apptHandler := NewAppointmentHandler(deps.Appointments)
	liveHandler := NewLiveHandler(deps.Live)
	configHandler := NewRemoteConfigHandler(deps.RemoteConfig)
	cvHandler := NewCVSuggestHandler(deps.CVSuggester)

	requireAuth := middleware.NewAuthMiddleware(deps.TokenVerifier, deps.UserFinder)
	requireAdmin := middleware.NewRoleMiddleware(model.RoleAdmin)
	requireEditor := middleware.NewRoleMiddleware(model.RoleAdmin, model.RoleEditor)
	requireContributor := middleware.NewRoleMiddleware(model.RoleAdmin, model.RoleEditor, model.RoleTranslator)
	requirePremium := middleware.NewPremiumMiddleware(deps.Billing)

	// --- unauthenticated routes ---

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.SetupMetricsRoute(deps.MetricGatherer))
	}

	// mirrored feed images
	if deps.UploadDir != "" {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(filepath.Clean(deps.UploadDir))))
		r.Get("/media/*", fileServer.ServeHTTP)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	// billing webhook, signature-verified upstream
	r.Post("/webhooks/billing", subHandler.Webhook)

	// public reads
	r.Get("/api/news", newsHandler.ListArticles)
	r.Get("/api/news/{id}", newsHandler.GetArticle)
	r.Get("/api/guides", contentHandler.ListGuides)
	r.Get("/api/guides/{slug}", contentHandler.GetGuideBySlug)
	r.Get("/api/checklists", contentHandler.ListChecklists)
	r.Get("/api/checklists/{id}", contentHandler.GetChecklist)
	r.Get("/api/templates", contentHandler.ListTemplates)
	r.Get("/api/templates/{id}", contentHandler.GetTemplate)
	r.Get("/api/glossary", contentHandler.ListGlossary)
	r.Get("/api/jobs/search", jobsHandler.Search)
	r.Get("/api/live/place-status", liveHandler.PlaceStatus)
	r.Get("/api/remote-config", configHandler.Get)

	// --- authenticated routes ---
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// subscription state
		r.Route("/api/subscriptions", func(r chi.Router) {
			r.Get("/current", subHandler.Current)
			r.Post("/trial", subHandler.StartTrial)
			r.Post("/checkout", subHandler.CreateCheckout)
		})

		// job favorites are a premium feature
		r.Route("/api/jobs/favorites", func(r chi.Router) {
			r.Use(requirePremium)
			r.Get("/", jobsHandler.ListFavorites)
			r.Post("/", jobsHandler.AddFavorite)
			r.Delete("/{id}", jobsHandler.RemoveFavorite)
		})

		// translation workflow
		r.Route("/api/translations", func(r chi.Router) {
			r.Get("/", contentHandler.ListTranslations)
			r.With(requireContributor).Post("/", contentHandler.SubmitTranslation)
			r.With(requireEditor).Post("/{id}/review", contentHandler.ReviewTranslation)
			r.With(requireEditor).Delete("/{id}", contentHandler.DeleteTranslation)
		})

		// appointments
		r.Route("/api/appointments", func(r chi.Router) {
			r.Get("/", apptHandler.List)
			r.Get("/{id}", apptHandler.Get)
			r.Post("/", apptHandler.Create)
			r.Put("/{id}", apptHandler.Update)
			r.Delete("/{id}", apptHandler.Delete)
		})

		// --- admin routes ---
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(requireEditor)

			r.Route("/guides", func(r chi.Router) {
				r.Post("/", contentHandler.CreateGuide)
				r.Put("/{id}", contentHandler.UpdateGuide)
				r.Delete("/{id}", contentHandler.DeleteGuide)
			})

			r.Route("/checklists", func(r chi.Router) {
				r.Post("/", contentHandler.CreateChecklist)
				r.Put("/{id}", contentHandler.UpdateChecklist)
				r.Delete("/{id}", contentHandler.DeleteChecklist)
			})

			r.Route("/templates", func(r chi.Router) {
				r.Post("/", contentHandler.CreateTemplate)
				r.Put("/{id}", contentHandler.UpdateTemplate)
				r.Delete("/{id}", contentHandler.DeleteTemplate)
			})

			r.Route("/glossary", func(r chi.Router) {
				r.Post("/", contentHandler.CreateGlossaryTerm)
				r.Put("/{id}", contentHandler.UpdateGlossaryTerm)
				r.Delete("/{id}", contentHandler.DeleteGlossaryTerm)
			})

			r.Get("/jobs/top-keywords", jobsHandler.TopKeywords)

			// news, feed management, CV suggestions and remote config
			// flags are admin-only
			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Post("/cv-suggest", cvHandler.Suggest)

				r.Route("/news", func(r chi.Router) {
					r.Get("/", newsHandler.ListArticlesAdmin)
					r.Post("/", newsHandler.CreateArticle)
					r.Put("/{id}", newsHandler.UpdateArticle)
					r.Delete("/{id}", newsHandler.DeleteArticle)
				})

				r.Route("/feeds", func(r chi.Router) {
					r.Get("/", newsHandler.ListFeeds)
					r.Post("/", newsHandler.CreateFeed)
					r.Put("/{id}", newsHandler.UpdateFeed)
					r.Delete("/{id}", newsHandler.DeleteFeed)
					r.With(deps.RateLimiter.ImportMiddleware()).Post("/{id}/import", newsHandler.TriggerImport)
				})

				r.Put("/remote-config/{key}", configHandler.SetFlag)
			})
		})
	})

	return r
}
