package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTExpiry        time.Duration
	CORSOrigins      []string
	FeedDriver       string // "log" or "sns"
	FeedTopicARN     string
	FeedRegion       string
	SMTPHost         string
	SMTPPort         string
	SMTPFrom         string
	SMTPUsername     string
	SMTPPassword     string
	RegisterTimeout  time.Duration
	WorkerInterval   time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerSec  int
	RateLimitBurst   int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiry:        time.Hour * time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		FeedDriver:       getEnv("FEED_DRIVER", "log"),
		FeedTopicARN:     os.Getenv("FEED_TOPIC_ARN"),
		FeedRegion:       getEnv("FEED_REGION", "ap-south-1"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPFrom:         getEnv("SMTP_FROM", "noreply@helpindia.local"),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		RegisterTimeout:  time.Second * time.Duration(getEnvInt("REGISTER_TIMEOUT_SECONDS", 5)),
		WorkerInterval:   time.Second * time.Duration(getEnvInt("WORKER_INTERVAL_SECONDS", 30)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerSec:  getEnvInt("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 20),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.FeedDriver == "sns" && cfg.FeedTopicARN == "" {
		return nil, fmt.Errorf("FEED_TOPIC_ARN is required when FEED_DRIVER=sns")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
