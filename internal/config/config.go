package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultKey         = "discogs.csv"
	defaultMaxAttempts = 3
	maxLoadAttempts    = 10
)

// Config holds all configuration for the application.
type Config struct {
	// Catalog source. Exactly one of DiscogsBucket and DiscogsFile is set.
	DiscogsBucket   string
	DiscogsKey      string
	DiscogsFile     string
	AWSRegion       string
	LoadMaxAttempts int

	UseLLM       bool
	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	// DBPath is the SQLite chat log path. Empty disables the chat log.
	DBPath string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		DiscogsBucket: strings.TrimSpace(os.Getenv("DISCOGS_BUCKET")),
		DiscogsKey:    getEnv("DISCOGS_KEY", defaultKey),
		DiscogsFile:   strings.TrimSpace(os.Getenv("DISCOGS_FILE")),
		AWSRegion:     os.Getenv("AWS_REGION"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:  getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:     getEnv("LLM_API_KEY", "dummy-key"),
		DBPath:        os.Getenv("DB_PATH"),
		APIPort:       getEnv("API_PORT", "9000"),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.DiscogsBucket == "" && cfg.DiscogsFile == "" {
		return nil, errors.New("one of DISCOGS_BUCKET or DISCOGS_FILE is required")
	}
	if cfg.DiscogsBucket != "" && cfg.DiscogsFile != "" {
		return nil, errors.New("DISCOGS_BUCKET and DISCOGS_FILE are mutually exclusive")
	}

	attempts, err := strconv.Atoi(getEnv("LOAD_MAX_ATTEMPTS", strconv.Itoa(defaultMaxAttempts)))
	if err != nil {
		return nil, fmt.Errorf("LOAD_MAX_ATTEMPTS must be a valid integer: %w", err)
	}
	if attempts < 1 || attempts > maxLoadAttempts {
		return nil, fmt.Errorf("LOAD_MAX_ATTEMPTS must be between 1 and %d", maxLoadAttempts)
	}
	cfg.LoadMaxAttempts = attempts

	useLLM, err := strconv.ParseBool(getEnv("USE_LLM", "false"))
	if err != nil {
		return nil, fmt.Errorf("USE_LLM must be a boolean: %w", err)
	}
	cfg.UseLLM = useLLM

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

// loadDotEnv loads the first .env found walking up from the working directory.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
