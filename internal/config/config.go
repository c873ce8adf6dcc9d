// Package config ingests process configuration from environment variables
// (with an optional .env file), per the teacher's flat env-var convention.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the pipeline needs.
type Config struct {
	// Server
	Port    int
	DevMode bool

	// Document store
	StoreDriver string // "sqlite" (the only concrete driver shipped)
	StorePath   string

	// Logging
	LogLevel      string
	LogFilePath   string
	LogMaxBytes   int64
	LogBackups    int

	// Provider endpoints
	MarketDataBaseURL   string
	SocialBaseURL       string
	SearchAPIBaseURL    string
	TweetSearchBaseURL  string
	TweetSearchAPIHost  string

	// Credentials (secret)
	TweetSearchAPIKey string
	SearchAPIKey      string
	LLMAPIKey         string

	// Networking
	ProxyURL string

	// LLM parameters
	LLMBaseURL   string
	LLMModel     string
	LLMMaxTokens int
	LLMTopP      float64

	// Optional S3-compatible document-store backup
	BackupBucket    string
	BackupRegion    string
	BackupEndpoint  string
	BackupAccessKey string
	BackupSecretKey string

	// Ingestion sweep
	ProviderID      string
	TrackedSymbols  []string
	IngestCronSpec  string
}

// Load reads configuration from the environment, loading a .env file first
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnvAsInt("PORT", 8080),
		DevMode: getEnvAsBool("DEV_MODE", false),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		StorePath:   getEnv("STORE_PATH", "./data/bourseiq.db"),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFilePath: getEnv("LOG_FILE_PATH", ""),
		LogMaxBytes: getEnvAsInt64("LOG_MAX_BYTES", 30*1024*1024),
		LogBackups:  getEnvAsInt("LOG_BACKUP_COUNT", 5),

		MarketDataBaseURL:  getEnv("MARKET_DATA_BASE_URL", ""),
		SocialBaseURL:      getEnv("SOCIAL_BASE_URL", ""),
		SearchAPIBaseURL:   getEnv("SEARCH_API_BASE_URL", ""),
		TweetSearchBaseURL: getEnv("TWEET_SEARCH_BASE_URL", ""),
		TweetSearchAPIHost: getEnv("TWEET_SEARCH_API_HOST", ""),

		TweetSearchAPIKey: getEnv("TWEET_SEARCH_API_KEY", ""),
		SearchAPIKey:      getEnv("SEARCH_API_KEY", ""),
		LLMAPIKey:         getEnv("LLM_API_KEY", ""),

		ProxyURL: getEnv("PROXY_URL", ""),

		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens: getEnvAsInt("LLM_MAX_TOKENS", 4096),
		LLMTopP:      getEnvAsFloat("LLM_TOP_P", 1.0),

		BackupBucket:    getEnv("BACKUP_S3_BUCKET", ""),
		BackupRegion:    getEnv("BACKUP_S3_REGION", "us-east-1"),
		BackupEndpoint:  getEnv("BACKUP_S3_ENDPOINT", ""),
		BackupAccessKey: getEnv("BACKUP_S3_ACCESS_KEY", ""),
		BackupSecretKey: getEnv("BACKUP_S3_SECRET_KEY", ""),

		ProviderID:     getEnv("PROVIDER_ID", "tse_default"),
		TrackedSymbols: getEnvAsList("TRACKED_SYMBOLS", nil),
		IngestCronSpec: getEnv("INGEST_CRON_SPEC", "0 */15 * * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the settings the pipeline cannot run without are present.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("STORE_PATH is required")
	}
	return nil
}

// BackupEnabled reports whether an S3-compatible backup target is configured.
func (c *Config) BackupEnabled() bool {
	return c.BackupBucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated env var into a trimmed, non-empty
// string slice, or returns defaultValue if the var is unset.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
