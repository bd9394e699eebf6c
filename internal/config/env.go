package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Required
	AnthropicAPIKey       string
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// Optional with defaults
	DBPath          string
	HTTPPort        int
	Model           string
	Temperature     float64
	MaxOutputTokens int
	HistorySize     int
	ResendAPIKey    string
	NotifyFrom      string
	NotifyTo        string
}

func LoadFromEnv() *Config {
	cfg := &Config{
		// Required
		AnthropicAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),

		// Optional with defaults
		DBPath:          getEnvOrDefault("CALASSIST_DB_PATH", "./calassist.db"),
		HTTPPort:        getEnvAsIntOrDefault("CALASSIST_HTTP_PORT", 8000),
		Model:           getEnvOrDefault("CALASSIST_MODEL", "claude-sonnet-4-20250514"),
		Temperature:     getEnvAsFloatOrDefault("CALASSIST_TEMPERATURE", 0.1),
		MaxOutputTokens: getEnvAsIntOrDefault("CALASSIST_MAX_TOKENS", 1024),
		HistorySize:     getEnvAsIntOrDefault("CALASSIST_HISTORY_SIZE", 10),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		NotifyFrom:      os.Getenv("CALASSIST_NOTIFY_FROM"),
		NotifyTo:        os.Getenv("CALASSIST_NOTIFY_TO"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
