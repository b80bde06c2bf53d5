// Package config loads runtime configuration from the environment,
// with a local .env file as a development convenience.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	ESURL      string
	ESUser     string
	ESPassword string

	KafkaAddress string

	JWTSecret string
	LogLevel  string

	// SecureCookies marks session and cart cookies Secure; off for
	// plain-http development.
	SecureCookies bool
}

func Load() (*Config, error) {
	// Missing .env is normal outside development.
	_ = godotenv.Load(".env")

	cfg := &Config{
		HTTPAddr:      getDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		KafkaAddress:  os.Getenv("KAFKA_ADDRESS"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getDefault("LOG_LEVEL", "info"),
		SecureCookies: os.Getenv("SECURE_COOKIES") == "true",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return cfg, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
