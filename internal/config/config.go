package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// API
	APIPort        string
	APIEnvironment string

	// Logging
	LogLevel  string
	LogFormat string

	// State store
	StoreDriver    string // sqlite, postgres, redis, memory
	SQLitePath     string
	DatabaseURL    string
	RedisURL       string
	StateNamespace string

	// Simulated remote
	SimLatencyMin  time.Duration
	SimLatencyMax  time.Duration
	SimFailureRate float64

	// CRM webhook (replaces the simulated remote when set)
	CRMWebhookURL string
	CRMAPIToken   string
	CRMTimeout    time.Duration

	// Console behaviour
	SeedSampleData       bool
	SampleLeads          int
	ItemsPerPage         int
	NotificationDuration time.Duration

	// RabbitMQ
	RabbitMQURL string

	// Mail
	MailHost   string
	MailPort   int
	MailUser   string
	MailPass   string
	MailFrom   string
	AlertEmail string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Export storage
	ExportStorage   string // local, s3
	ExportLocalPath string
	AWSRegion       string
	S3Bucket        string
	S3Endpoint      string // optional, for MinIO
	BackupSchedule  string
}

// Load reads the optional .env file and then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIPort:        getEnv("API_PORT", "8080"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StoreDriver:    getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/seller_console.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		StateNamespace: getEnv("STATE_NAMESPACE", "seller_console"),

		SimLatencyMin:  getEnvAsDuration("SIM_LATENCY_MIN", 500*time.Millisecond),
		SimLatencyMax:  getEnvAsDuration("SIM_LATENCY_MAX", 1500*time.Millisecond),
		SimFailureRate: getEnvAsFloat("SIM_FAILURE_RATE", 0),

		CRMWebhookURL: getEnv("CRM_WEBHOOK_URL", ""),
		CRMAPIToken:   getEnv("CRM_API_TOKEN", ""),
		CRMTimeout:    getEnvAsDuration("CRM_TIMEOUT", 10*time.Second),

		SeedSampleData:       getEnvAsBool("SEED_SAMPLE_DATA", true),
		SampleLeads:          getEnvAsInt("SAMPLE_LEADS", 25),
		ItemsPerPage:         getEnvAsInt("ITEMS_PER_PAGE", 20),
		NotificationDuration: getEnvAsDuration("NOTIFICATION_DURATION", 5*time.Second),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		MailHost:   getEnv("MAIL_HOST", ""),
		MailPort:   getEnvAsInt("MAIL_PORT", 587),
		MailUser:   getEnv("MAIL_USER", ""),
		MailPass:   getEnv("MAIL_PASS", ""),
		MailFrom:   getEnv("MAIL_FROM", "no-reply@seller-console.local"),
		AlertEmail: getEnv("ALERT_EMAIL", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 20),

		ExportStorage:   getEnv("EXPORT_STORAGE", "local"),
		ExportLocalPath: getEnv("EXPORT_LOCAL_PATH", "data/exports"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		BackupSchedule:  getEnv("BACKUP_SCHEDULE", ""),
	}
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite", "memory", "redis":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.SimLatencyMin < 0 || c.SimLatencyMax < c.SimLatencyMin {
		return fmt.Errorf("SIM_LATENCY_MIN must be >= 0 and <= SIM_LATENCY_MAX")
	}
	if c.SimFailureRate < 0 || c.SimFailureRate > 1 {
		return fmt.Errorf("SIM_FAILURE_RATE must be between 0 and 1")
	}
	if c.ExportStorage == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when EXPORT_STORAGE=s3")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.APIEnvironment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("750ms") or bare milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
