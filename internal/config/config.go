package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth; empty disables authentication.
	DocparseAPIKey string

	// Upload limits
	MaxUploadBytes int64

	// Parse latency stats window
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port:           envOr("PORT", "8090"),
		DocparseAPIKey: os.Getenv("DOCPARSE_API_KEY"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		StatsWindow:    envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
