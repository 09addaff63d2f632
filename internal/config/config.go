package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend selects the record-store implementation.
type StoreBackend string

const (
	// BackendCSV stores records as positional CSV files under StorageRoot.
	BackendCSV StoreBackend = "csv"
	// BackendSQLite stores records in an embedded SQLite database.
	BackendSQLite StoreBackend = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort           string
	LogLevel          slog.Level
	LogFormat         string
	StorageRoot       string
	UploadsDir        string
	StoreBackend      StoreBackend
	SQLitePath        string
	ProcessorBaseURL  string
	DevMode           bool
	RedisAddr         string
	QueueName         string
	PollInterval      time.Duration
	WorkerConcurrency int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		StorageRoot:      getEnv("STORAGE_ROOT", "./storage"),
		UploadsDir:       getEnv("UPLOADS_DIR", "./public/uploads"),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/docuchat.db"),
		ProcessorBaseURL: getEnv("PROCESSOR_BASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		QueueName:        getEnv("QUEUE_NAME", "index-data-queue"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	backend := StoreBackend(getEnv("STORE_BACKEND", string(BackendCSV)))
	if backend != BackendCSV && backend != BackendSQLite {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendCSV, BackendSQLite, backend)
	}
	cfg.StoreBackend = backend

	devMode, err := strconv.ParseBool(getEnv("DEV_MODE", "false"))
	if err != nil {
		return nil, fmt.Errorf("DEV_MODE must be a boolean: %w", err)
	}
	cfg.DevMode = devMode

	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "3s"))
	if err != nil {
		return nil, fmt.Errorf("POLL_INTERVAL must be a valid duration: %w", err)
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be greater than 0")
	}
	cfg.PollInterval = pollInterval

	concurrency, err := strconv.Atoi(getEnv("WORKER_CONCURRENCY", "5"))
	if err != nil {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be a valid integer: %w", err)
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be greater than 0")
	}
	cfg.WorkerConcurrency = concurrency

	// Validate required fields
	if cfg.ProcessorBaseURL == "" {
		return nil, fmt.Errorf("PROCESSOR_BASE_URL is required")
	}
	// The queue path needs a broker; the direct (dev mode) path does not.
	if !cfg.DevMode && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required unless DEV_MODE is enabled")
	}

	// Create storage directories up front so first writes never race on MkdirAll
	for _, dir := range []string{cfg.StorageRoot, cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if cfg.StoreBackend == BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// parseLogLevel converts a level name into a slog.Level.
func parseLogLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", name)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
