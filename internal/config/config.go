package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"mdtangle/internal/chunk"
)

// Config holds all configuration for the application.
type Config struct {
	RootChunk     string        // Entry chunk used when a target does not name one
	Scanner       string        // Block scanner: "fenced" or "markdown"
	DBPath        string        // SQLite run catalog
	APIPort       string        // Port for `mdtangle serve`
	LogLevel      slog.Level    // Minimum log level
	LogFormat     string        // "text" or "json"
	WatchDebounce time.Duration // Quiet period before a changed input is re-tangled
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or one of its parents, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
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
		RootChunk: getEnv("TANGLE_ROOT_CHUNK", chunk.DefaultRoot),
		Scanner:   getEnv("TANGLE_SCANNER", chunk.ScannerFenced),
		DBPath:    getEnv("DB_PATH", "./data/mdtangle.db"),
		APIPort:   getEnv("API_PORT", "9000"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if _, err := chunk.ScannerByName(cfg.Scanner); err != nil {
		return nil, fmt.Errorf("TANGLE_SCANNER: %w", err)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	level, err := ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	debounceStr := getEnv("WATCH_DEBOUNCE_MS", "300")
	debounceMS, err := strconv.Atoi(debounceStr)
	if err != nil {
		return nil, fmt.Errorf("WATCH_DEBOUNCE_MS must be a valid integer: %w", err)
	}
	if debounceMS <= 0 {
		return nil, fmt.Errorf("WATCH_DEBOUNCE_MS must be greater than 0")
	}
	cfg.WatchDebounce = time.Duration(debounceMS) * time.Millisecond

	return cfg, nil
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	return level, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
