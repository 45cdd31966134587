// Package config reads the application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/msomdec/sentiment-board/internal/classifier"
)

// Database drivers understood by DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultClassifierURL is used when CLASSIFIER_URL is unset.
const DefaultClassifierURL = classifier.DefaultEndpoint

const minSecretLength = 32

// Config holds all settings. It is read once at startup and treated as
// immutable afterwards.
type Config struct {
	// Server
	Port string

	// Database
	DatabaseDriver string
	DatabaseURL    string

	// Auth
	JWTSecret    string
	CookieSecure bool
	BcryptCost   int
	SessionTTL   time.Duration

	// Classifier
	ClassifierURL     string
	ClassifierToken   string
	ClassifierTimeout time.Duration

	// Logging
	LogLevel slog.Level
	LogFile  string
}

// Load reads env files and then builds a Config from the environment. With no
// files named it reads ./.env when present; named files must exist. Malformed
// values are reported together in one error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	cfg := &Config{
		Port:            getEnvString("PORT", "8080"),
		DatabaseDriver:  strings.ToLower(getEnvString("DATABASE_DRIVER", DriverSQLite)),
		DatabaseURL:     getEnvString("DATABASE_URL", "sentiments.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ClassifierURL:   getEnvString("CLASSIFIER_URL", DefaultClassifierURL),
		ClassifierToken: os.Getenv("CLASSIFIER_TOKEN"),
		LogFile:         os.Getenv("LOG_FILE"),
	}

	if cfg.DatabaseDriver != DriverSQLite && cfg.DatabaseDriver != DriverPostgres {
		fail("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.DatabaseDriver)
	}

	// Secure cookies unless explicitly disabled for local development.
	cfg.CookieSecure = os.Getenv("COOKIE_SECURE") != "false"

	var err error
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", 12); err != nil {
		fail("invalid BCRYPT_COST: %v", err)
	} else if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		fail("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}

	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		fail("invalid SESSION_TTL: %v", err)
	} else if cfg.SessionTTL <= 0 {
		fail("SESSION_TTL must be positive")
	}

	if cfg.ClassifierTimeout, err = getEnvDuration("CLASSIFIER_TIMEOUT", 30*time.Second); err != nil {
		fail("invalid CLASSIFIER_TIMEOUT: %v", err)
	} else if cfg.ClassifierTimeout <= 0 {
		fail("CLASSIFIER_TIMEOUT must be positive")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvString("LOG_LEVEL", "info"))); err != nil {
		fail("invalid LOG_LEVEL: %v", err)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// RequireSecret reports whether JWT_SECRET is usable for signing session
// tokens. Only the commands that issue tokens need it.
func (c *Config) RequireSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLength)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}
