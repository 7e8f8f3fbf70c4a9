package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string // public base for redirect URLs, e.g. "https://go.thedude.travel"

	// Database
	DatabaseURL string

	// Redis (optional; enables shared rate limiting and affiliate config caching)
	RedisURL string

	// Auth
	APIKey    string // static bearer key for machine-to-machine callers
	JWTSecret string // HMAC secret for partner service tokens

	// CORS
	CORSOrigins string // comma-separated allowed origins

	// Redirects
	RedirectTTL      time.Duration // default expiry applied to issued redirects
	RedirectMaxClick int           // default click quota, 0 = unlimited

	// Providers
	ProviderTimeout time.Duration // per-provider search timeout

	// LLM agent
	LLMProvider     string // "openai", "gemini" or "claude"
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AnthropicAPIKey string

	// Analytics
	KafkaBrokers    string // comma-separated; empty disables the Kafka sink
	KafkaClickTopic string
}

// Load reads configuration from environment variables with sensible defaults.
// A local .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/thedude?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),

		APIKey:    getEnv("API_KEY", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		RedirectTTL:      getDuration("REDIRECT_TTL", 7*24*time.Hour),
		RedirectMaxClick: getInt("REDIRECT_MAX_CLICKS", 10),

		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", 10*time.Second),

		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		AnthropicAPIKey: getEnv("CLAUDE_API_KEY", ""),

		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		KafkaClickTopic: getEnv("KAFKA_CLICK_TOPIC", "redirect-clicks"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// AuthEnabled reports whether the bearer auth middleware should be enforced.
// Matches the original deployment: auth is skipped entirely in local mode.
func (c *Config) AuthEnabled() bool {
	return !c.IsDev() && (c.APIKey != "" || c.JWTSecret != "")
}
