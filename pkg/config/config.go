package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Environment          string
	ServerPort           int
	LogLevel             string
	SessionTTL           time.Duration
	SessionStore         string // "memory" or "redis"
	SessionSweepInterval time.Duration
	RedisURL             string
	AuditDatabaseURL     string
	CORSAllowedOrigins   []string
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	sessionTTLMS, err := strconv.Atoi(getEnv("SESSION_TTL_MS", "100000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_MS: %w", err)
	}

	sweepSeconds, err := strconv.Atoi(getEnv("SESSION_SWEEP_INTERVAL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL_SECONDS: %w", err)
	}

	rateLimitMax, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX_REQUESTS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX_REQUESTS: %w", err)
	}

	rateLimitWindowSeconds, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW_SECONDS: %w", err)
	}

	sessionStore := strings.ToLower(getEnv("SESSION_STORE", "memory"))
	switch sessionStore {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE %q: want memory or redis", sessionStore)
	}

	return &Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		ServerPort:           port,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		SessionTTL:           time.Duration(sessionTTLMS) * time.Millisecond,
		SessionStore:         sessionStore,
		SessionSweepInterval: time.Duration(sweepSeconds) * time.Second,
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379"),
		AuditDatabaseURL:     os.Getenv("AUDIT_DATABASE_URL"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		RateLimitMaxRequests: rateLimitMax,
		RateLimitWindow:      time.Duration(rateLimitWindowSeconds) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
