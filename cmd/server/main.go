// Package main is the entrypoint for the AI hiring portal API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ItsMeCK/AIInterview/internal/ai"
	"github.com/ItsMeCK/AIInterview/internal/api"
	"github.com/ItsMeCK/AIInterview/internal/api/handler"
	mw "github.com/ItsMeCK/AIInterview/internal/api/middleware"
	"github.com/ItsMeCK/AIInterview/internal/api/response"
	"github.com/ItsMeCK/AIInterview/internal/cache"
	"github.com/ItsMeCK/AIInterview/internal/config"
	"github.com/ItsMeCK/AIInterview/internal/interview"
	"github.com/ItsMeCK/AIInterview/internal/notifier"
	"github.com/ItsMeCK/AIInterview/internal/resume"
	"github.com/ItsMeCK/AIInterview/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, failing fast when invalid
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create the generation provider
	provider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", provider.Name())

	// 6. Create store and supporting services
	pgStore := store.NewPostgresStore(pool)

	extractor, err := resume.NewExtractor(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("create resume extractor: %w", err)
	}

	var sender notifier.Sender = notifier.LogSender{}
	if cfg.SMTP.Enabled() {
		sender = notifier.NewSMTPClient(cfg.SMTP)
	}

	engine := interview.NewEngine(provider, cfg.AI.InferenceTimeout)
	analyzer := interview.NewAnalyzer(provider, cfg.AI.InferenceTimeout)
	svc := interview.NewService(pgStore, redisCache, engine, analyzer, extractor, sender, cfg.Server.BaseURL)

	// 7. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler: healthHandler(pgStore, redisCache),

		InitiateHandler:      handler.NewInitiateHandler(svc),
		SubmitDetailsHandler: handler.NewSubmitDetailsHandler(svc),
		StartHandler:         handler.NewStartHandler(svc),
		AnswerHandler:        handler.NewAnswerHandler(svc),
		EndHandler:           handler.NewEndHandler(svc),

		CreateJobHandler:      handler.NewCreateJobHandler(pgStore),
		ListJobsHandler:       handler.NewListJobsHandler(pgStore),
		GetJobHandler:         handler.NewGetJobHandler(pgStore),
		UpdateJobHandler:      handler.NewUpdateJobHandler(pgStore),
		DeleteJobHandler:      handler.NewDeleteJobHandler(pgStore),
		InviteHandler:         handler.NewInviteHandler(svc),
		ListInterviewsHandler: handler.NewListInterviewsHandler(pgStore),
		GetInterviewHandler:   handler.NewGetInterviewHandler(pgStore),
		ReviewHandler:         handler.NewReviewHandler(svc),
		ReanalyzeHandler:      handler.NewReanalyzeHandler(svc),
		AnalysisHandler:       handler.NewAnalysisHandler(pgStore, svc),
		DashboardHandler:      handler.NewDashboardHandler(pgStore),
		CreateKeyHandler:      handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:       handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler:      handler.NewRevokeKeyHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Answer generation is synchronous and may retry once, so the
		// write window must outlast two inference timeouts.
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
