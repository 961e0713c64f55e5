package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds the service configuration loaded from the environment.
type Config struct {
	Port     string
	Debug    bool
	LogLevel string

	DBDriver         string
	DBDSN            string
	DBConnectRetries int

	RedisAddr string
	CacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	RateLimit       float64
	RateBurst       int
	ShutdownTimeout time.Duration
}

// Load reads a .env file when one exists, then the process environment,
// falling back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return Config{
		Port:             envOrDefault("PORT", "5000"),
		Debug:            envOrDefaultBool("DEBUG", false),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		DBDriver:         envOrDefault("DB_DRIVER", DriverSQLite),
		DBDSN:            envOrDefault("DB_DSN", "app.sqlite"),
		DBConnectRetries: envOrDefaultInt("DB_CONNECT_RETRIES", 5),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		CacheTTL:         envOrDefaultDuration("CACHE_TTL", 5*time.Minute),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       envOrDefault("KAFKA_TOPIC", "bookshelf-events"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "bookshelf-cache-group"),
		RateLimit:        envOrDefaultFloat("RATE_LIMIT", 20),
		RateBurst:        envOrDefaultInt("RATE_BURST", 40),
		ShutdownTimeout:  envOrDefaultDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// CacheEnabled reports whether a Redis address is configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// EventsEnabled reports whether Kafka brokers are configured.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer, using default")
		return fallback
	}
	return n
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid number, using default")
		return fallback
	}
	return f
}

func envOrDefaultBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid boolean, using default")
		return fallback
	}
	return b
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
