package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	MongoDBURL  string
	MongoDBName string
	RedisURL    string

	// Auth
	APIKey    string
	JWTSecret string

	// Upload
	MaxUploadBytes int

	// Cache
	ResultCacheTTL time.Duration

	// Rate limiting
	RateLimit       int
	RateLimitWindow time.Duration

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "docserver"),
		RedisURL:    getEnv("REDIS_URL", ""),

		// Auth
		APIKey:    getEnv("API_KEY", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),

		// Upload
		MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024),

		// Cache
		ResultCacheTTL: time.Duration(getEnvInt("RESULT_CACHE_TTL_MIN", 60)) * time.Minute,

		// Rate limiting
		RateLimit:       getEnvInt("RATE_LIMIT", 60),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SEC", 60)) * time.Second,

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
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

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AuthEnabled reports whether request authentication is configured. When
// neither an API key nor a JWT secret is set, requests pass unauthenticated
// (local development behavior).
func (c *Config) AuthEnabled() bool {
	return c.APIKey != "" || c.JWTSecret != ""
}
