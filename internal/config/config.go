package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Feed     FeedConfig
	Cache    CacheConfig
	Activity ActivityConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthMode selects how bearer tokens are verified.
type AuthMode string

const (
	// AuthModeJWKS verifies RS256 tokens against the identity provider's
	// published key set.
	AuthModeJWKS AuthMode = "jwks"
	// AuthModeHMAC verifies HS256 tokens against a shared secret. Meant
	// for local development only.
	AuthModeHMAC AuthMode = "hmac"
)

// AuthConfig defines token verification parameters.
type AuthConfig struct {
	Mode               AuthMode
	JWKSURL            string
	Issuer             string
	Audience           string
	RefreshIntervalMin int
	DevSecret          string
	DevTokenTTLMinutes int
}

// CacheConfig bounds read-through caching of composed reads.
type CacheConfig struct {
	ProfileTTLSeconds int
}

// FeedConfig bounds the unseen-designs feed.
type FeedConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// ActivityConfig holds activity worker settings.
type ActivityConfig struct {
	EmailFrom    string
	WebhookURL   string
	RecentMaxLen int64
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	mode := AuthMode(getEnv("AUTH_MODE", string(AuthModeJWKS)))
	if mode != AuthModeJWKS && mode != AuthModeHMAC {
		return nil, fmt.Errorf("invalid AUTH_MODE: %s", mode)
	}
	if mode == AuthModeJWKS && os.Getenv("AUTH_JWKS_URL") == "" {
		return nil, fmt.Errorf("AUTH_JWKS_URL required when AUTH_MODE=jwks")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "nailfeed-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Mode:               mode,
			JWKSURL:            os.Getenv("AUTH_JWKS_URL"),
			Issuer:             os.Getenv("AUTH_ISSUER"),
			Audience:           os.Getenv("AUTH_AUDIENCE"),
			RefreshIntervalMin: getEnvAsInt("AUTH_JWKS_REFRESH_MINUTES", 60),
			DevSecret:          getEnv("AUTH_DEV_SECRET", "dev-secret"),
			DevTokenTTLMinutes: getEnvAsInt("AUTH_DEV_TOKEN_TTL_MINUTES", 60),
		},
		Cache: CacheConfig{
			ProfileTTLSeconds: getEnvAsInt("PROFILE_CACHE_TTL_SECONDS", 60),
		},
		Feed: FeedConfig{
			DefaultLimit: getEnvAsInt("FEED_DEFAULT_LIMIT", 20),
			MaxLimit:     getEnvAsInt("FEED_MAX_LIMIT", 50),
		},
		Activity: ActivityConfig{
			EmailFrom:    getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:   getEnv("NOTIFY_WEBHOOK_URL", ""),
			RecentMaxLen: int64(getEnvAsInt("ACTIVITY_RECENT_MAX", 100)),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ProfileTTL returns the composed-profile cache lifetime.
func (c CacheConfig) ProfileTTL() time.Duration {
	if c.ProfileTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ProfileTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
