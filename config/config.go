package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string `validate:"required,numeric"`
	ServerHost  string
	CORSOrigins []string `validate:"dive,url"`

	// Database configuration
	DBDriver   string `validate:"oneof=postgres sqlite"`
	DBHost     string `validate:"required_if=DBDriver postgres"`
	DBPort     string `validate:"omitempty,numeric"`
	DBUser     string `validate:"required_if=DBDriver postgres"`
	DBPassword string
	DBName     string `validate:"required_if=DBDriver postgres"`
	DBSSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	SQLitePath string `validate:"required_if=DBDriver sqlite"`

	// Redis configuration. Empty disables caching and rate limiting.
	RedisURL string `validate:"omitempty,url"`

	// JWT configuration
	JWTSecret string `validate:"required"`

	// Model providers
	VisionProvider string `validate:"oneof=openai gemini"`
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string `validate:"omitempty,url"`
	GeminiAPIKey   string
	GeminiModel    string
	PexelsAPIKey   string

	// Scan photo storage. Empty bucket sends photos inline.
	S3Bucket  string
	AWSRegion string

	// Fallback time zone for users who have not picked one.
	DefaultTimezone string `validate:"omitempty,timezone"`

	// Requests per user per hour.
	ScanRateLimit      int `validate:"gte=0"`
	DiscoveryRateLimit int `validate:"gte=0"`
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	// Load configuration based on environment
	switch env {
	case CI, Test:
		loadTestConfig(cfg)
	case Development:
		if err := loadDevConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load development configuration: %w", err)
		}
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadTestConfig gives tests and CI a self-contained SQLite setup. Any
// variable that is set still wins.
func loadTestConfig(cfg *Config) {
	loadCommon(cfg, os.Getenv)
	cfg.DBDriver = orDefault(os.Getenv("DB_DRIVER"), "sqlite")
	cfg.SQLitePath = orDefault(os.Getenv("SQLITE_PATH"), "file::memory:?cache=shared")
	cfg.JWTSecret = orDefault(os.Getenv("JWT_SECRET"), "test-secret")
}

// loadDevConfig reads .env when present, then the environment, then Docker
// secrets for anything still unset.
func loadDevConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	loadCommon(cfg, func(name string) string {
		if v := os.Getenv(name); v != "" {
			return v
		}
		return readSecret(strings.ToLower(name))
	})
	cfg.DBDriver = orDefault(cfg.DBDriver, "sqlite")
	cfg.SQLitePath = orDefault(cfg.SQLitePath, "smartcookly.db")
	if cfg.JWTSecret == "" {
		log.Printf("[Config] JWT_SECRET not set, using an insecure development secret")
		cfg.JWTSecret = "dev-secret-change-me"
	}
	return nil
}

// loadProdConfig prefers Docker secrets and falls back to the environment.
func loadProdConfig(cfg *Config) {
	loadCommon(cfg, func(name string) string {
		if v := readSecret(strings.ToLower(name)); v != "" {
			return v
		}
		return os.Getenv(name)
	})
	cfg.DBDriver = orDefault(cfg.DBDriver, "postgres")
}

// loadCommon fills every field from get, applying the shared defaults.
func loadCommon(cfg *Config, get func(string) string) {
	cfg.ServerPort = orDefault(get("SERVER_PORT"), "8080")
	cfg.ServerHost = get("SERVER_HOST")
	cfg.CORSOrigins = splitList(get("CORS_ORIGINS"))

	cfg.DBDriver = get("DB_DRIVER")
	cfg.DBHost = get("DB_HOST")
	cfg.DBPort = orDefault(get("DB_PORT"), "5432")
	cfg.DBUser = get("DB_USER")
	cfg.DBPassword = get("DB_PASSWORD")
	cfg.DBName = get("DB_NAME")
	cfg.DBSSLMode = orDefault(get("DB_SSL_MODE"), "disable")
	cfg.SQLitePath = get("SQLITE_PATH")

	cfg.RedisURL = get("REDIS_URL")
	cfg.JWTSecret = get("JWT_SECRET")

	cfg.VisionProvider = strings.ToLower(orDefault(get("VISION_PROVIDER"), "openai"))
	cfg.OpenAIAPIKey = get("OPENAI_API_KEY")
	cfg.OpenAIModel = get("OPENAI_MODEL")
	cfg.OpenAIBaseURL = get("OPENAI_BASE_URL")
	cfg.GeminiAPIKey = get("GEMINI_API_KEY")
	cfg.GeminiModel = get("GEMINI_MODEL")
	cfg.PexelsAPIKey = get("PEXELS_API_KEY")

	cfg.S3Bucket = get("S3_BUCKET_NAME")
	cfg.AWSRegion = orDefault(get("AWS_REGION"), "us-east-1")

	cfg.DefaultTimezone = get("DEFAULT_TIMEZONE")
	cfg.ScanRateLimit = intSetting(get("SCAN_RATE_LIMIT"), 20)
	cfg.DiscoveryRateLimit = intSetting(get("DISCOVERY_RATE_LIMIT"), 30)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func intSetting(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("[Config] ignoring non-numeric value %q", value)
		return fallback
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// PostgresDSN builds the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, orDefault(c.DBSSLMode, "disable"))
}
