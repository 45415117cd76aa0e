package config

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingDatabaseURL = errors.New("a database connection string is required (first argument or DATABASE_URL)")

type Config struct {
	Host            string
	Port            string
	DatabaseURL     string
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
	S3Bucket        string
	AWSRegion       string
	S3Endpoint      string
	RabbitMQURL     string
}

// Load reads .env and the environment. args are the command line arguments
// after the program name; a first argument overrides DATABASE_URL.
func Load(args []string) (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Host:            getEnv("HOST", "127.0.0.1"),
		Port:            getEnv("PORT", "5000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		LogLevel:        getLevel("LOG_LEVEL", slog.LevelInfo),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
	}
	if len(args) > 0 && args[0] != "" {
		cfg.DatabaseURL = args[0]
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	return cfg, nil
}

// LoadEnv copies .env into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("loading .env failed", "error", err)
	}
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Default().Warn("invalid duration, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}

func getLevel(key string, fallback slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(value))); err != nil {
		slog.Default().Warn("invalid log level, using default", "key", key, "value", value)
		return fallback
	}
	return level
}
