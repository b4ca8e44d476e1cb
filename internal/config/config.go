// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	// DataPath is the ledger file (or SQLite database) location.
	DataPath string

	// Backend selects the Store implementation: "file" or "sqlite".
	Backend string

	// Delimiter separates fields in the flat-file format.
	Delimiter byte

	// MaxAmount caps any single amount.
	MaxAmount decimal.Decimal

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// MetricsAddr, when set, serves Prometheus metrics on that address.
	MetricsAddr string
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := &Config{
		Backend:     strings.ToLower(get("STORE_BACKEND", BackendFile)),
		LogLevel:    strings.ToLower(get("LOG_LEVEL", "info")),
		MetricsAddr: get("METRICS_ADDR", ""),
	}

	switch cfg.Backend {
	case BackendFile:
		cfg.DataPath = get("DATA_PATH", "./data/splitledger.txt")
	case BackendSQLite:
		cfg.DataPath = get("DATA_PATH", "./data/splitledger.db")
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, cfg.Backend)
	}

	delim, err := parseDelimiter(get("FIELD_DELIMITER", ""))
	if err != nil {
		return nil, fmt.Errorf("FIELD_DELIMITER: %w", err)
	}
	cfg.Delimiter = delim

	cfg.MaxAmount = models.DefaultMaxAmount
	if raw := get("MAX_AMOUNT", ""); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil || !max.IsPositive() {
			return nil, fmt.Errorf("MAX_AMOUNT must be a positive number, got %q", raw)
		}
		cfg.MaxAmount = max
	}

	return cfg, nil
}

// parseDelimiter accepts a single byte, or an escape such as \x1f or \t.
func parseDelimiter(raw string) (byte, error) {
	if raw == "" {
		return models.DefaultDelimiter, nil
	}
	if len(raw) > 1 {
		unquoted, err := strconv.Unquote(`"` + raw + `"`)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q", raw)
		}
		raw = unquoted
	}
	if len(raw) != 1 {
		return 0, fmt.Errorf("must be a single byte, got %q", raw)
	}
	if raw[0] == '\n' || raw[0] == '\r' {
		return 0, fmt.Errorf("line breaks separate records")
	}
	return raw[0], nil
}
