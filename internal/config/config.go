// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration shared by both services.
type Config struct {
	TrendsPort string
	IngestPort string

	DatabaseURL string
	RedisURL    string

	JobsAPIURL string
	JobsAPIKey string

	SearchTerms     []string
	SearchLocations []string

	ScrapeIntervalHours    int
	AnalyticsIntervalHours int
	RetentionDays          int
}

// Load reads environment variables (optionally seeded from a local .env file)
// and returns a validated Config.
func Load() (*Config, error) {
	// .env is a local-development convenience; absence is not an error.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	scrapeInterval, err := intervalHours("SCRAPE_INTERVAL_HOURS", 6)
	if err != nil {
		return nil, err
	}
	analyticsInterval, err := intervalHours("ANALYTICS_INTERVAL_HOURS", 12)
	if err != nil {
		return nil, err
	}

	retention := 90
	if s := os.Getenv("RETENTION_DAYS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RETENTION_DAYS must be a positive integer, got %q", s)
		}
		retention = v
	}

	return &Config{
		TrendsPort:             envOr("TRENDS_PORT", "8091"),
		IngestPort:             envOr("INGEST_PORT", "8092"),
		DatabaseURL:            dbURL,
		RedisURL:               redisURL,
		JobsAPIURL:             envOr("JOBS_API_URL", "http://localhost:8000"),
		JobsAPIKey:             os.Getenv("JOBS_API_KEY"),
		SearchTerms:            envList("SEARCH_TERMS", []string{"React Developer", "Node.js Developer"}),
		SearchLocations:        envList("SEARCH_LOCATIONS", []string{"Hyderabad, India", "Chennai, India"}),
		ScrapeIntervalHours:    scrapeInterval,
		AnalyticsIntervalHours: analyticsInterval,
		RetentionDays:          retention,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList splits a comma-separated variable, trimming whitespace around items.
func envList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func intervalHours(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}
