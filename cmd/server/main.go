// AIHEM Labs - Challenge Validation & Scoring Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autoagenix/aihem-labs/internal/api"
	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/config"
	"github.com/autoagenix/aihem-labs/internal/engine"
	"github.com/autoagenix/aihem-labs/internal/identity"
	"github.com/autoagenix/aihem-labs/internal/ledger"
	"github.com/autoagenix/aihem-labs/internal/middleware"
	"github.com/autoagenix/aihem-labs/internal/scoreboard"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Load the challenge catalog.
	cat := catalog.Load(cfg.ChallengesPath)
	slog.Info("Challenge catalog loaded", "challenges", cat.Len(), "total_points", cat.TotalPoints())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the score ledger. Redis is preferred when configured; a
	// SQLite file is the standalone fallback.
	var led ledger.Ledger
	if cfg.RedisURL != "" {
		redisLedger, err := ledger.NewRedis(cfg.RedisURL, cfg.SolvedTTL)
		if err != nil {
			slog.Error("Failed to initialize Redis ledger", "error", err)
			os.Exit(1)
		}
		if err := redisLedger.Ping(ctx); err != nil {
			// Redis may come up after us; handlers degrade until it does.
			slog.Warn("Redis unreachable at startup, continuing degraded", "error", err)
		} else {
			slog.Info("Redis ledger connected")
		}
		led = redisLedger
	} else {
		sqliteLedger, err := ledger.NewSQLite(cfg.DBPath, cfg.SolvedTTL)
		if err != nil {
			slog.Error("Failed to initialize SQLite ledger", "error", err)
			os.Exit(1)
		}
		if err := sqliteLedger.Ping(ctx); err != nil {
			slog.Error("SQLite ledger health check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("SQLite ledger connected", "path", cfg.DBPath)

		ledger.StartSweeper(ctx, sqliteLedger)
		slog.Info("Expired solve sweeper started", "solved_ttl", cfg.SolvedTTL)
		led = sqliteLedger
	}
	defer func() {
		if closeErr := led.Close(); closeErr != nil {
			slog.Error("Failed to close ledger", "error", closeErr)
		}
	}()

	// Initialize services.
	evaluator := engine.NewEvaluator(cat)
	feed := scoreboard.NewFeed()

	// Initialize handlers.
	handler := api.NewHandler(cat, evaluator, led, feed, cfg)
	healthHandler := api.NewHealthHandler(cat, led)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Handle("/metrics", promhttp.Handler())

	// All routes use identity middleware (no auth needed).
	handler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/scoreboard", feed.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout, scoreboard WebSockets are long-lived
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
