// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // VENUE_TIMEZONE must resolve on hosts without zoneinfo
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// VenueTimezone is the zone opening hours are written in.
	// Defaults to Europe/Berlin.
	VenueTimezone *time.Location

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// WeatherAPIKey enables GET /weather when set.
	WeatherAPIKey string

	// WeatherBaseURL is the OpenWeatherMap-compatible API root.
	WeatherBaseURL string

	// MapPublicToken is handed out by GET /geocoding/token when set.
	MapPublicToken string

	// TourismFeedURL enables GET /tourism/events when set.
	TourismFeedURL string

	// UpstreamCacheTTL is how long successful upstream responses are reused.
	// Defaults to 10m; 0 disables the cache.
	UpstreamCacheTTL time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, joined
// with any values that could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherBaseURL: getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		MapPublicToken: os.Getenv("MAP_PUBLIC_TOKEN"),
		TourismFeedURL: os.Getenv("TOURISM_FEED_URL"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var errs []error

	loc, err := time.LoadLocation(getEnv("VENUE_TIMEZONE", "Europe/Berlin"))
	if err != nil {
		errs = append(errs, fmt.Errorf("VENUE_TIMEZONE: %w", err))
	}
	cfg.VenueTimezone = loc

	cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("MIGRATE_ON_START: %w", err))
	}

	cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES: %w", err))
	}

	cfg.UpstreamCacheTTL, err = time.ParseDuration(getEnv("UPSTREAM_CACHE_TTL", "10m"))
	if err != nil {
		errs = append(errs, fmt.Errorf("UPSTREAM_CACHE_TTL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
