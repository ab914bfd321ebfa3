package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

const minSecretLength = 32

var (
	ErrMissingSecret = errors.New("SESSION_SECRET environment variable is required")
	ErrShortSecret   = errors.New("SESSION_SECRET must be at least 32 characters long")
	ErrInvalidTTL    = errors.New("session TTLs must be positive")
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string
	WebDir   string

	// Kafka is optional; with no brokers activity is projected in process.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// DatabaseURL selects the PostgreSQL catalog, CatalogFile a JSON seed.
	// Neither set means the built-in catalog.
	DatabaseURL string
	CatalogFile string

	SessionSecret   string
	SessionTTL      time.Duration
	SessionTokenTTL time.Duration
	SweepInterval   time.Duration
	SecureCookies   bool
}

func Load() Config {
	return Config{
		AppEnv:          getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		WebDir:          os.Getenv("WEB_DIR"),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "shop-activity"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "api-projector"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CatalogFile:     os.Getenv("CATALOG_FILE"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionTokenTTL: getEnvDuration("SESSION_TOKEN_TTL", 24*time.Hour),
		SweepInterval:   getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		SecureCookies:   getEnv("SECURE_COOKIES", "false") == "true",
	}
}

// Validate checks the settings the API server cannot start without.
func (c Config) Validate() error {
	if c.SessionSecret == "" {
		return ErrMissingSecret
	}
	if len(c.SessionSecret) < minSecretLength {
		return ErrShortSecret
	}
	if c.SessionTTL <= 0 || c.SessionTokenTTL <= 0 || c.SweepInterval <= 0 {
		return ErrInvalidTTL
	}
	return nil
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
