package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"debug"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"console"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`

	// PostgreSQL
	DBHost           string `envconfig:"DB_HOST" default:"localhost"`
	DBPort           string `envconfig:"DB_PORT" default:"5432"`
	DBUser           string `envconfig:"DB_USER" default:"postgres"`
	DBName           string `envconfig:"DB_NAME" default:"wellness"`
	DBSSLMode        string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConnections int    `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBMaxConnIdleMin int    `envconfig:"DB_MAX_IDLE_MINUTES" default:"5"`
	// Secret, loaded without an envconfig tag.
	DBPassword string

	// Redis (insights/multiplier cache)
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RedisCacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"5m"`
	RedisPassword string

	// Coach (OpenAI-compatible endpoint)
	AIAPIKey      string
	AIModel       string `envconfig:"AI_MODEL" default:"llama-3.3-70b-versatile"`
	AIBaseURL     string `envconfig:"AI_BASE_URL" default:"https://api.groq.com/openai/v1"`
	AITimeoutSec  int    `envconfig:"AI_TIMEOUT" default:"60"`
	AIMaxAttempts int    `envconfig:"AI_MAX_ATTEMPTS" default:"3"`

	// Daily coach message limit for free-tier accounts.
	CoachFreeDailyLimit int `envconfig:"COACH_FREE_DAILY_LIMIT" default:"10"`

	// JWT verification (tokens are issued by the external auth provider).
	JWTSecret string

	// CORS
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// Load reads configuration from the environment, preferring an optional .env
// file for local development.
func Load() (*Config, error) {
	// Missing .env is fine in production.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	// Secrets are read explicitly so envconfig never bakes in defaults.
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.AIAPIKey = os.Getenv("AI_API_KEY")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AIAPIKey == "" {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}

	return &cfg, nil
}

// DatabaseURL assembles the pgx connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// AllowedOrigins splits the configured comma-separated origin list.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
