package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"PORT", "DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET", "COOKIE_SECURE",
	"BCRYPT_COST", "SESSION_TTL", "CLASSIFIER_URL", "CLASSIFIER_TOKEN",
	"CLASSIFIER_TIMEOUT", "LOG_LEVEL", "LOG_FILE",
}

// clearEnv blanks every setting so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

// emptyEnvFile keeps Load away from any .env in the working directory.
func emptyEnvFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(emptyEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("DatabaseDriver = %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL != "sentiments.db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if !cfg.CookieSecure {
		t.Error("CookieSecure should default to true")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.ClassifierURL != DefaultClassifierURL {
		t.Errorf("ClassifierURL = %q", cfg.ClassifierURL)
	}
	if cfg.ClassifierTimeout != 30*time.Second {
		t.Errorf("ClassifierTimeout = %v", cfg.ClassifierTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/sentiments")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CLASSIFIER_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(emptyEnvFile(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DatabaseDriver != DriverPostgres {
		t.Errorf("unexpected server/db settings: %+v", cfg)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should be false")
	}
	if cfg.BcryptCost != 4 || cfg.SessionTTL != 30*time.Minute || cfg.ClassifierTimeout != 5*time.Second {
		t.Errorf("unexpected numeric settings: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"DATABASE_DRIVER", "mysql", "DATABASE_DRIVER"},
		{"BCRYPT_COST", "abc", "BCRYPT_COST"},
		{"BCRYPT_COST", "20", "between 4 and 14"},
		{"SESSION_TTL", "tomorrow", "SESSION_TTL"},
		{"SESSION_TTL", "-1h", "SESSION_TTL must be positive"},
		{"CLASSIFIER_TIMEOUT", "0s", "CLASSIFIER_TIMEOUT must be positive"},
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(emptyEnvFile(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("Port = %q, want 7070 from env file", cfg.Port)
	}
}

func TestLoad_MissingNamedEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("expected error for a named env file that does not exist")
	}
	if !strings.Contains(err.Error(), "load env file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireSecret(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireSecret(); err == nil {
		t.Error("expected error for missing secret")
	}

	cfg.JWTSecret = "too-short"
	if err := cfg.RequireSecret(); err == nil {
		t.Error("expected error for short secret")
	}

	cfg.JWTSecret = strings.Repeat("s", 32)
	if err := cfg.RequireSecret(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
