// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server needs to start. All values come from
// the environment; the store, authenticator and token manager are
// constructed from it in main and passed down explicitly.
type Config struct {
	// Port is the HTTP listen port (PORT, default 5000).
	Port int

	// DBPath is the SQLite database file (DB_PATH, default ./data/splitmoney.db).
	DBPath string

	// JWTSecret signs session tokens (JWT_SECRET, required).
	JWTSecret string

	// TokenTTL is how long issued tokens stay valid (TOKEN_TTL, default 24h).
	TokenTTL time.Duration
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     5000,
		DBPath:   getEnv("DB_PATH", "./data/splitmoney.db"),
		TokenTTL: 24 * time.Hour,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
