package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration. It is built once at startup
// and passed by reference into each component's constructor; nothing reads
// the environment after Load returns.
type Config struct {
	ServerPort   int
	DatabasePath string

	// JWTSecret signs end-user bearer tokens. Required.
	JWTSecret string
	// JWTExpiry is the validity window of issued tokens. Required.
	JWTExpiry time.Duration
	// ServiceToken is the shared secret for service-to-service calls. Required.
	ServiceToken string

	// Bounded retry tuning for the initial store connection.
	DBConnectAttempts int
	DBConnectDelay    time.Duration

	// Audit event retention.
	EventRetentionDays int
	EventPurgeSchedule string // cron spec
}

// Load loads configuration from environment variables or sets defaults.
// Missing secrets are a fatal startup error, not a per-request one.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	expiryStr := os.Getenv("JWT_EXPIRY")
	if expiryStr == "" {
		return nil, fmt.Errorf("JWT_EXPIRY is required")
	}
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY %q: %w", expiryStr, err)
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRY must be positive, got %q", expiryStr)
	}

	serviceToken := os.Getenv("SERVICE_TOKEN")
	if serviceToken == "" {
		return nil, fmt.Errorf("SERVICE_TOKEN is required")
	}

	attempts, err := strconv.Atoi(getEnv("DB_CONNECT_ATTEMPTS", "5"))
	if err != nil || attempts < 1 {
		return nil, fmt.Errorf("invalid DB_CONNECT_ATTEMPTS")
	}

	delay, err := time.ParseDuration(getEnv("DB_CONNECT_DELAY", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_DELAY: %w", err)
	}

	retention, err := strconv.Atoi(getEnv("EVENT_RETENTION_DAYS", "30"))
	if err != nil || retention < 1 {
		return nil, fmt.Errorf("invalid EVENT_RETENTION_DAYS")
	}

	return &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./accounts.db"),
		JWTSecret:          jwtSecret,
		JWTExpiry:          expiry,
		ServiceToken:       serviceToken,
		DBConnectAttempts:  attempts,
		DBConnectDelay:     delay,
		EventRetentionDays: retention,
		EventPurgeSchedule: getEnv("EVENT_PURGE_SCHEDULE", "@hourly"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
