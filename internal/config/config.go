// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultCacheMaxBytes is the default size cap for the financial cache (4 GB).
const DefaultCacheMaxBytes = int64(4e9)

// Config holds application configuration
type Config struct {
	IntrinioAPIKey string // API key for the Intrinio data service (required)
	CacheDir       string // Directory holding the financial cache (always absolute)
	CacheMaxBytes  int64  // Size cap for the cache store
	LogLevel       string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// The API key has no default and no fallback. Without it no data can be
	// fetched, so its absence is a hard startup failure.
	apiKey := os.Getenv("INTRINIO_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("INTRINIO_API_KEY environment variable is not set")
	}

	cacheDir := getEnv("VALUATOR_CACHE_DIR", "./financial-data")

	// Always resolve to absolute path
	absCacheDir, err := filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}

	cfg := &Config{
		IntrinioAPIKey: apiKey,
		CacheDir:       absCacheDir,
		CacheMaxBytes:  getEnvAsInt64("VALUATOR_CACHE_MAX_BYTES", DefaultCacheMaxBytes),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
