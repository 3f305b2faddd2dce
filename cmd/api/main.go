// Package main is the entry point for the TinyTrails API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/tinytrails/backend/internal/config"
	"github.com/tinytrails/backend/internal/handler"
	"github.com/tinytrails/backend/internal/middleware"
	"github.com/tinytrails/backend/internal/repo"
	"github.com/tinytrails/backend/internal/service"
	"github.com/tinytrails/backend/internal/upstream"
	"github.com/tinytrails/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Migrations -------------------------------------------------------
	if cfg.MigrateOnStart {
		if err := migrate(context.Background(), cfg.DatabaseURL, logger); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Services ---------------------------------------------------------
	activityRepo := repo.NewActivityRepo(pool)
	preferenceRepo := repo.NewPreferenceRepo(pool)
	recommendationRepo := repo.NewRecommendationRepo(pool)

	upstreamClient := upstream.NewClient(cfg.UpstreamCacheTTL, logger)
	logUnconfigured(logger, cfg)

	server := handler.NewServer(handler.Services{
		Activities:      service.NewActivityService(activityRepo, cfg.VenueTimezone),
		Preferences:     service.NewPreferenceService(preferenceRepo),
		Recommendations: service.NewRecommendationService(preferenceRepo, activityRepo, recommendationRepo, logger),
		Weather:         upstream.NewWeatherClient(upstreamClient, cfg.WeatherBaseURL, cfg.WeatherAPIKey),
		Events:          upstream.NewTourismClient(upstreamClient, cfg.TourismFeedURL),
		MapTokens:       upstream.NewMapTokenIssuer(cfg.MapPublicToken),
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Write timeout leaves room for upstream retries behind /weather and /tourism.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "venue_timezone", cfg.VenueTimezone.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending embedded migrations over a short-lived *sql.DB.
func migrate(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	results, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	for _, res := range results {
		log.Info("migration applied", "version", res.Source.Version, "path", res.Source.Path, "duration", res.Duration)
	}
	return nil
}

// logUnconfigured notes proxy routes that will answer 503.
func logUnconfigured(log *slog.Logger, cfg config.Config) {
	for name, value := range map[string]string{
		"WEATHER_API_KEY":  cfg.WeatherAPIKey,
		"MAP_PUBLIC_TOKEN": cfg.MapPublicToken,
		"TOURISM_FEED_URL": cfg.TourismFeedURL,
	} {
		if value == "" {
			log.Warn("upstream not configured; route will return 503", "env", name)
		}
	}
}
