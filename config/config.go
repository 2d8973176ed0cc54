package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	AppURL      string
	// Remote libsql database (optional, falls back to local SQLite)
	TursoDatabaseURL string
	TursoAuthToken   string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Cloudflare R2 storage for scanned correspondence
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	// Batch endpoints
	BatchRateLimit int // requests per minute per viewer
	MaxBatchSize   int
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "db/registry.db"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		UploadDir:         getEnv("UPLOAD_DIR", "static/uploads"),
		AppURL:            getEnv("APP_URL", "http://localhost:8080"),
		TursoDatabaseURL:  getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:    getEnv("TURSO_AUTH_TOKEN", ""),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "registry@caseregistry.local"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Case Registry"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		BatchRateLimit:    getEnvInt("BATCH_RATE_LIMIT", 30),
		MaxBatchSize:      getEnvInt("MAX_BATCH_SIZE", 200),
	}
}

// Validate checks settings that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerPort) == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	if c.BatchRateLimit <= 0 {
		return fmt.Errorf("BATCH_RATE_LIMIT must be positive (got %d)", c.BatchRateLimit)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("MAX_BATCH_SIZE must be positive (got %d)", c.MaxBatchSize)
	}
	if c.IsProduction() && c.TursoDatabaseURL != "" && c.TursoAuthToken == "" {
		return fmt.Errorf("TURSO_AUTH_TOKEN is required when TURSO_DATABASE_URL is set in production")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// R2Configured reports whether all credentials for R2 storage are present
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
