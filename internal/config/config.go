package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	Port        string
	FrontendURL string

	DatabaseURL string
	// Logs every SQL statement.
	DatabaseDebug bool

	// Optional. The job listing is cached only when RedisURL is set.
	RedisURL string
	CacheTTL time.Duration

	JWTSecret string

	// Draft extraction is disabled without a key.
	GeminiAPIKey string
	GeminiModel  string

	RefreshInterval    time.Duration
	ApplyRatePerMinute int
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Info().Msg("No .env file found, reading configuration from the environment")
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DatabaseDebug: getEnvAsBool("DATABASE_DEBUG", false),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getEnvAsDuration("CACHE_TTL_SECONDS", 5*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		RefreshInterval:    getEnvAsDuration("REFRESH_INTERVAL_SECONDS", 0),
		ApplyRatePerMinute: getEnvAsInt("APPLY_RATE_PER_MINUTE", 10),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring non-integer setting")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration reads a whole number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return time.Duration(getEnvAsInt(key, int(defaultValue/time.Second))) * time.Second
}
