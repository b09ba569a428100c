package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	DatabasePath string
	VectorPath   string
	BooksDir     string

	// LLM provider
	APIKey     string
	BaseURL    string
	LargeModel string // primary analysis model
	SmallModel string // lightweight tasks (language detection)
	EmbedModel string

	// Rate ceilings for outbound LLM calls
	MaxCallsPerMinute int
	MaxCallsPerHour   int
	MaxCallsPerDay    int
	MaxRetries        int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath: getEnv("DATABASE_PATH", "data/litlens.db"),
		VectorPath:   getEnv("VECTOR_PATH", "data/chapters.veclite"),
		BooksDir:     getEnv("BOOKS_DIR", "books"),
		APIKey:       getEnv("LLM_API_KEY", ""),
		BaseURL:      getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LargeModel:   getEnv("LLM_LARGE_MODEL", "gpt-4"),
		SmallModel:   getEnv("LLM_SMALL_MODEL", "gpt-3.5-turbo"),
		EmbedModel:   getEnv("EMBED_MODEL", "text-embedding-3-small"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MaxCallsPerMinute, err = getEnvInt("MAX_CALLS_PER_MINUTE", 5); err != nil {
		return nil, err
	}
	if cfg.MaxCallsPerHour, err = getEnvInt("MAX_CALLS_PER_HOUR", 30); err != nil {
		return nil, err
	}
	if cfg.MaxCallsPerDay, err = getEnvInt("MAX_CALLS_PER_DAY", 100); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getEnvInt("MAX_RETRIES", 5); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForAnalysis checks configuration needed to run analyses.
func (c *Config) ValidateForAnalysis() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required for analysis")
	}
	return nil
}

// ValidateForIndexing checks configuration needed to build the chapter
// vector index.
func (c *Config) ValidateForIndexing() error {
	if err := c.ValidateForAnalysis(); err != nil {
		return err
	}
	if c.VectorPath == "" {
		return fmt.Errorf("VECTOR_PATH is required for indexing")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
