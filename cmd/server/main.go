package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/castingdesk/internal/featureflags"
	"github.com/yourorg/castingdesk/internal/handler"
	"github.com/yourorg/castingdesk/internal/infrastructure/logger"
	"github.com/yourorg/castingdesk/internal/infrastructure/redis"
	"github.com/yourorg/castingdesk/internal/observability/metrics"
	"github.com/yourorg/castingdesk/internal/observability/tracing"
	"github.com/yourorg/castingdesk/internal/security/audit"
	"github.com/yourorg/castingdesk/internal/security/middleware"
	"github.com/yourorg/castingdesk/internal/security/ratelimit"
	"github.com/yourorg/castingdesk/internal/security/session"
	"github.com/yourorg/castingdesk/internal/service"
	"github.com/yourorg/castingdesk/internal/store"
	"github.com/yourorg/castingdesk/internal/worker"
	"github.com/yourorg/castingdesk/pkg/config"
	"github.com/yourorg/castingdesk/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting CastingDesk server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(ctx, log, "castingdesk", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	// 4. Build the store and the session backend
	st := store.New()

	var redisClient *redis.Client
	var sessionStore session.Store
	switch cfg.SessionStore {
	case "redis":
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		sessionStore = session.NewRedisStore(redisClient, log)
	default:
		sessionStore = session.NewMemoryStore(st.Sessions)
	}
	sessions := session.NewManager(sessionStore, cfg.SessionTTL, log)

	// 5. Optional audit sink backed by Postgres
	var auditSink *audit.Sink
	var auditDB *database.ConnectionPool
	if cfg.AuditDatabaseURL != "" {
		auditDB, err = database.NewConnectionPool(ctx, &database.Config{URL: cfg.AuditDatabaseURL}, log)
		if err != nil {
			log.Error("failed to connect audit database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer auditDB.Close()

		auditSink = audit.NewSink(auditDB, log)
		if err := auditSink.EnsureSchema(ctx); err != nil {
			log.Error("failed to prepare audit schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	auditLogger := audit.NewLogger(log, auditSink)

	// 6. Initialize services
	authService := service.NewAuthService(st, sessions, log)
	userService := service.NewUserService(st, log)
	companyService := service.NewCompanyService(st, log)
	castingService := service.NewCastingService(st, log)
	applicantService := service.NewApplicantService(st, log)

	// 7. Initialize handlers
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, rateLimiter, auditLogger, log),
		Users:      handler.NewUserHandler(userService, auditLogger, log),
		Companies:  handler.NewCompanyHandler(companyService, userService, auditLogger, log),
		Castings:   handler.NewCastingHandler(companyService, castingService, log),
		Applicants: handler.NewApplicantHandler(companyService, castingService, applicantService, log),
		Health:     handler.NewHealthHandler(sessions, redisClient, auditDB, log),
	}
	if featureflags.Enabled(featureflags.AuditFeed) {
		handlers.Events = handler.NewEventsHandler(auditLogger, cfg.CORSAllowedOrigins, log)
		log.Info("audit event feed enabled at /ws/events")
	}

	// 8. Setup HTTP routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handlers)
	mux.Handle("/metrics", promhttp.Handler())

	// Chain middleware: request ID -> metrics -> CORS -> session auth ->
	// rate limit -> audit
	rootHandler := middleware.RequestID()(
		metrics.HTTPMetricsMiddleware(
			middleware.CORSMiddleware(cfg.CORSAllowedOrigins)(
				middleware.SessionAuth(sessions, st.Users, log)(
					middleware.RateLimitMiddleware(rateLimiter, log)(
						middleware.AuditMiddleware(auditLogger)(mux),
					),
				),
			),
		),
	)
	traced := otelhttp.NewHandler(rootHandler, "castingdesk.http")

	// 9. Start the session janitor in background
	if featureflags.EnabledDefault(featureflags.SessionSweep, true) {
		janitor := worker.NewSessionJanitor(sessions, log, cfg.SessionSweepInterval)
		go janitor.Start(ctx)
	}

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      traced,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("session_store", cfg.SessionStore),
		slog.Duration("session_ttl", cfg.SessionTTL),
		slog.Int("rate_limit", cfg.RateLimitMaxRequests),
		slog.Duration("rate_limit_window", cfg.RateLimitWindow),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop the janitor
	rateLimiter.Stop()
	log.Info("server stopped")
}
