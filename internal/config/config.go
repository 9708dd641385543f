package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins string
	AppEnv      string

	// Ceiling for the activity-log listing query; exceeding it returns 504.
	ActivityQueryTimeout time.Duration
}

func Load() *Config {
	// Not fatal when missing: production injects real env vars.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=lexfirm port=5432 sslmode=disable"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		TokenTTL:             getDuration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AppEnv:               getEnv("APP_ENV", "development"),
		ActivityQueryTimeout: getDuration("ACTIVITY_QUERY_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set; refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.AppEnv == "production" && cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS still points at the dev frontend")
	}

	return cfg
}

func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("[WARN] %s=%q is not a duration, using default %s", key, v, def)
	return def
}
