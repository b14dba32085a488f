package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Document store
	StoreBackend   string
	DataDir        string
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool
	RedisKeyPrefix string
	S3Bucket       string
	S3Prefix       string
	S3PathStyle    bool
	DatabaseURL    string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Blood bank
	LowStockThreshold int
	DefaultUnits      int

	// Email
	EmailProvider   string
	SMTPHost        string
	SMTPPort        int
	EmailFrom       string
	EmailFromName   string
	SendGridAPIKey  string
	AlertRecipients []string
	HospitalName    string

	// Treatment suggestions
	LLMProvider    string
	GeminiAPIKey   string
	GeminiModel    string
	BedrockModelID string
	LLMTimeout     time.Duration

	// Sessions
	SessionJWTSecret  string
	SessionTTL        time.Duration
	AdminSeedPassword string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreBackend:   strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "file"))),
		DataDir:        getEnv("DATA_DIR", "data"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "hospital:doc:"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Prefix:       getEnv("S3_PREFIX", "data/"),
		S3PathStyle:    getEnvAsBool("S3_PATH_STYLE", false),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		LowStockThreshold: getEnvAsInt("INVENTORY_LOW_STOCK_THRESHOLD", 5),
		DefaultUnits:      getEnvAsInt("INVENTORY_DEFAULT_UNITS", 10),

		EmailProvider:   strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "smtp"))),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnvAsInt("SMTP_PORT", 1025),
		EmailFrom:       getEnv("EMAIL_FROM", "system@hospital.com"),
		EmailFromName:   getEnv("EMAIL_FROM_NAME", "City Hospital"),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		AlertRecipients: getEnvAsList("ALERT_RECIPIENTS", []string{"admin@hospital.com"}),
		HospitalName:    getEnv("HOSPITAL_NAME", "City Hospital"),

		LLMProvider:    strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "gemini"))),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-flash-latest"),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),

		SessionJWTSecret:  getEnv("SESSION_JWT_SECRET", ""),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 8*time.Hour),
		AdminSeedPassword: getEnv("ADMIN_SEED_PASSWORD", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
