// Package app wires the configuration, database, services and HTTP layer
// together and drives the process lifecycle for every subcommand.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/sweeezy/backend/internal/appointment"
	"github.com/sweeezy/backend/internal/audit"
	"github.com/sweeezy/backend/internal/auth"
	"github.com/sweeezy/backend/internal/billing"
	"github.com/sweeezy/backend/internal/config"
	"github.com/sweeezy/backend/internal/content"
	"github.com/sweeezy/backend/internal/cvsuggest"
	"github.com/sweeezy/backend/internal/database"
	"github.com/sweeezy/backend/internal/fetch"
	"github.com/sweeezy/backend/internal/handler"
	"github.com/sweeezy/backend/internal/importer"
	"github.com/sweeezy/backend/internal/jobs"
	"github.com/sweeezy/backend/internal/live"
	"github.com/sweeezy/backend/internal/logger"
	"github.com/sweeezy/backend/internal/metrics"
	"github.com/sweeezy/backend/internal/middleware"
	"github.com/sweeezy/backend/internal/news"
	"github.com/sweeezy/backend/internal/remoteconfig"
	"github.com/sweeezy/backend/internal/repository"
	"github.com/sweeezy/backend/internal/security"
	"github.com/sweeezy/backend/internal/worker/cleanup"
	"github.com/sweeezy/backend/internal/worker/importrun"
)

// appVersion is reported through the remote config endpoint so clients can
// gate features on the backend release.
const appVersion = "1.0.0"

// Init sets up JSON structured logging and loads the configuration from
// the environment. Logs go to w when given, stdout otherwise.
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run is the process entry point. args is os.Args[1:].
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck skips full initialization so it works without a
	// complete environment
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe opens the database, wires every dependency and starts the HTTP
// server. SIGINT/SIGTERM trigger a graceful shutdown.
func runServe(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// repositories
	userRepo := repository.NewPostgresUserRepo(db)
	subRepo := repository.NewPostgresSubscriptionRepo(db)
	subEventRepo := repository.NewPostgresSubscriptionEventRepo(db)
	articleRepo := repository.NewPostgresArticleRepo(db)
	feedRepo := repository.NewPostgresRSSFeedRepo(db)
	auditRepo := repository.NewPostgresAuditLogRepo(db)
	guideRepo := repository.NewPostgresGuideRepo(db)
	checklistRepo := repository.NewPostgresChecklistRepo(db)
	templateRepo := repository.NewPostgresTemplateRepo(db)
	glossaryRepo := repository.NewPostgresGlossaryRepo(db)
	translationRepo := repository.NewPostgresTranslationRepo(db)
	appointmentRepo := repository.NewPostgresAppointmentRepo(db)
	jobFavoriteRepo := repository.NewPostgresJobFavoriteRepo(db)
	jobEventRepo := repository.NewPostgresJobSearchEventRepo(db)
	remoteConfigRepo := repository.NewPostgresRemoteConfigRepo(db)

	// metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// security
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()
	fetcher := fetch.NewFetcher(ssrfGuard)

	// domain services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	authService := auth.NewService(userRepo, tokens)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Warn("failed to seed admin account", slog.String("error", err.Error()))
		}
	}

	auditor := audit.NewRecorder(auditRepo)
	newsService := news.NewService(articleRepo, feedRepo, auditor, ssrfGuard)
	imp := importer.New(articleRepo, feedRepo, fetcher, sanitizer, collector, cfg.UploadDir)

	aggregator := jobs.NewAggregator(jobs.ProviderConfig{
		RapidAPIKey:  cfg.RapidAPIKey,
		RapidAPIHost: cfg.RapidAPIHost,
		RAVBaseURL:   cfg.RAVBaseURL,
		RAVToken:     cfg.RAVToken,
	}, collector)
	favoriteService := jobs.NewFavoriteService(jobFavoriteRepo)
	analyticsService := jobs.NewAnalyticsService(jobEventRepo)

	billingService := billing.NewService(userRepo, subRepo, subEventRepo, collector, cfg.TrialDays)
	checkoutClient := billing.NewCheckoutClient(billing.CheckoutConfig{
		APIKey:       cfg.BillingAPIKey,
		PriceMonthly: cfg.BillingPriceMonthly,
		PriceYearly:  cfg.BillingPriceYearly,
	}, userRepo)

	guideService := content.NewGuideService(guideRepo, auditor)
	checklistService := content.NewChecklistService(checklistRepo, auditor)
	templateService := content.NewTemplateService(templateRepo, auditor)
	glossaryService := content.NewGlossaryService(glossaryRepo, auditor)
	translationService := content.NewTranslationService(translationRepo, auditor)

	appointmentService := appointment.NewService(appointmentRepo, auditor)
	liveService := live.NewService()

	cvService := cvsuggest.NewService(cvsuggest.Config{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
	})

	configStore := remoteconfig.NewStore(remoteConfigRepo, appVersion)
	if err := configStore.Load(context.Background()); err != nil {
		slog.Warn("failed to load remote config flags", slog.String("error", err.Error()))
	}

	// router
	deps := &handler.RouterDeps{
		TokenVerifier:     tokens,
		UserFinder:        userRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       middleware.NewRateLimiter(rateLimiterConfig(cfg)),
		RequestLogger:     middleware.NewLoggingMiddleware(slog.Default(), collector),

		AuthService:    authService,
		NewsService:    newsService,
		Importer:       imp,
		JobSearcher:    aggregator,
		Favorites:      favoriteService,
		Analytics:      analyticsService,
		Billing:        billingService,
		Checkout:       checkoutClient,
		Guides:         guideService,
		Checklists:     checklistService,
		Templates:      templateService,
		Glossary:       glossaryService,
		Translations:   translationService,
		Appointments:   appointmentService,
		Live:           liveService,
		RemoteConfig:   configStore,
		CVSuggester:    cvService,
		MetricGatherer: registry,

		UploadDir: cfg.UploadDir,
	}

	router := handler.NewRouter(deps)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker starts the feed import scheduler and the retention cleanup job.
func runWorker(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	articleRepo := repository.NewPostgresArticleRepo(db)
	feedRepo := repository.NewPostgresRSSFeedRepo(db)
	subEventRepo := repository.NewPostgresSubscriptionEventRepo(db)
	auditRepo := repository.NewPostgresAuditLogRepo(db)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()
	fetcher := fetch.NewFetcher(ssrfGuard)
	imp := importer.New(articleRepo, feedRepo, fetcher, sanitizer, collector, cfg.UploadDir)

	scheduler := importrun.NewScheduler(feedRepo, imp, slog.Default())

	cleanupJob := cleanup.NewJob(subEventRepo, auditRepo, slog.Default())
	if cfg.EventRetentionDays > 0 {
		cleanupJob.RetentionDays = cfg.EventRetentionDays
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("import_interval", cfg.ImportInterval),
		slog.Int("retention_days", cleanupJob.RetentionDays),
	)

	// daily retention purge in the background, one run at startup
	go func() {
		if err := cleanupJob.Run(ctx); err != nil {
			slog.Error("cleanup job failed", slog.String("error", err.Error()))
		}
		cleanupJob.Start(ctx, 24*time.Hour)
	}()

	// the import scheduler blocks until shutdown
	scheduler.Start(ctx, cfg.ImportInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate applies all pending database migrations.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck probes the local /healthz endpoint.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// rateLimiterConfig converts the configured req/min limits to the limiter's
// req/sec rates.
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	limiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimitGeneral > 0 {
		limiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
		limiterCfg.GeneralBurst = cfg.RateLimitGeneral
	}
	if cfg.RateLimitImport > 0 {
		limiterCfg.ImportRate = rate.Limit(float64(cfg.RateLimitImport) / 60.0)
		limiterCfg.ImportBurst = cfg.RateLimitImport
	}
	return limiterCfg
}

// maskDatabaseURL hides credentials before the URL reaches a log line.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
