package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret  string
	ServerPort string

	// BaseURL is the public origin of the web client, used to build and
	// parse deep links (?quiz=<id>).
	BaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       string
	FeedCacheTTL  string

	GeminiAPIKey string
	GeminiAPIURL string
	GeminiModel  string
}

// geminiKeyEnvVars are the recognized configuration slots for the generation
// credential, checked in priority order. There is no single canonical name;
// deployments vary.
var geminiKeyEnvVars = []string{
	"GEMINI_API_KEY",
	"API_KEY",
	"VITE_API_KEY",
	"NEXT_PUBLIC_API_KEY",
}

func Load() *Config {
	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "popquiz"),

		JWTSecret:  getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		FeedCacheTTL:  getEnv("FEED_CACHE_TTL", "30s"),

		GeminiAPIKey: resolveGeminiKey(),
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
	}
}

func resolveGeminiKey() string {
	for _, name := range geminiKeyEnvVars {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// Duration parses a duration string, falling back when empty or malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
