// Package config reads the harness configuration from the
// environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvTurnTimeout = "JEDNA_TURN_TIMEOUT"
	EnvGameTimeout = "JEDNA_GAME_TIMEOUT"
	EnvLogLevel    = "JEDNA_LOG_LEVEL"
)

// Config is the configuration surface used by the harness: the two
// timeouts (0 = no limit) and the log level.
type Config struct {
	TurnTimeout time.Duration
	GameTimeout time.Duration
	LogLevel    logrus.Level
}

// Defaults applied when a variable is unset.
const (
	DefaultTurnTimeout = 30 * time.Second
	DefaultGameTimeout = 0 * time.Second // no limit
)

// Load reads the configuration. A .env file in the working directory
// is honored when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		TurnTimeout: DefaultTurnTimeout,
		GameTimeout: DefaultGameTimeout,
		LogLevel:    logrus.InfoLevel,
	}

	var err error
	if cfg.TurnTimeout, err = timeoutVar(EnvTurnTimeout, cfg.TurnTimeout); err != nil {
		return nil, err
	}
	if cfg.GameTimeout, err = timeoutVar(EnvGameTimeout, cfg.GameTimeout); err != nil {
		return nil, err
	}

	if raw := os.Getenv(EnvLogLevel); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// timeoutVar parses a timeout variable: a non-negative number of
// seconds (fractions allowed), where 0 means "no limit".
func timeoutVar(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number: %q", name, raw)
	}
	if secs < 0 {
		return 0, fmt.Errorf("%s: must be non-negative, got %q", name, raw)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
