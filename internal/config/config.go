// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	FrontendURL      string
	RedisURL         string // empty = use the embedded SQLite ledger
	DBPath           string
	ChallengesPath   string
	SolvedTTL        time.Duration
	LeaderboardLimit int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	ttlHours := getEnvInt("SOLVED_TTL_HOURS", 24*30)
	if ttlHours <= 0 {
		ttlHours = 24 * 30
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		FrontendURL:      getEnv("FRONTEND_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		DBPath:           getEnv("DB_PATH", "./data/scores.db"),
		ChallengesPath:   getEnv("CHALLENGES_PATH", "./challenges/definitions/challenges.yaml"),
		SolvedTTL:        time.Duration(ttlHours) * time.Hour,
		LeaderboardLimit: getEnvInt("LEADERBOARD_LIMIT", 100),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.RedisURL == "" && c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty when REDIS_URL is not set")
	}
	if c.SolvedTTL <= 0 {
		return fmt.Errorf("SOLVED_TTL_HOURS must be > 0")
	}
	if c.LeaderboardLimit <= 0 {
		return fmt.Errorf("LEADERBOARD_LIMIT must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
