package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI         string
	DBName           string
	ChunksCollection string
	Port             string
	GinMode          string
	CORSOrigins      []string

	// Gemini Configuration
	GeminiAPIKey string
	GeminiModel  string
	GeminiTier   string
	LLMTimeout   int // seconds

	// Highlight resolution
	MaxFallbackChunks int
	HighlightCacheTTL int // seconds

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Embed token auth (optional; open mode when unset)
	EmbedSecret string

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Telemetry
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017/pdf_chat"),
		DBName:           getEnv("DB_NAME", "pdf_chat"),
		ChunksCollection: getEnv("CHUNKS_COLLECTION", "chunks"),
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		CORSOrigins:      strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		// Gemini Configuration
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTier:   getEnv("GEMINI_TIER", "free"),
		LLMTimeout:   getEnvInt("LLM_TIMEOUT", 20),

		// Highlight resolution
		MaxFallbackChunks: getEnvInt("MAX_FALLBACK_CHUNKS", 8),
		HighlightCacheTTL: getEnvInt("HIGHLIGHT_CACHE_TTL", 3600),

		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EmbedSecret: getEnv("EMBED_SECRET", ""),

		// Rate limiting
		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		// Telemetry
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.MaxFallbackChunks < 1 {
		return nil, fmt.Errorf("MAX_FALLBACK_CHUNKS must be at least 1")
	}

	if cfg.LLMTimeout < 1 {
		return nil, fmt.Errorf("LLM_TIMEOUT must be at least 1 second")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
