// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/activity-ledger/internal/aggregate"
)

// Config holds all configuration values for the API server and ledgerctl.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Location is the time zone that defines calendar days.
	// LEDGER_TIMEZONE takes an IANA name; defaults to the host's local zone.
	Location *time.Location

	// TickInterval is how often the wall-clock tick runs. Defaults to 30s.
	TickInterval time.Duration

	// FlushDelay is the quiet period before pending changes are written. Defaults to 600ms.
	FlushDelay time.Duration

	// RolloverContinueTag keeps the running tag across midnight instead of
	// switching to idle. Defaults to false.
	RolloverContinueTag bool

	// Categories groups tag names into focused and maintenance time.
	// Read from the YAML file at CATEGORIES_FILE when set.
	Categories aggregate.Categories

	// LegacyImportPath is the optional one-time history file.
	LegacyImportPath string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first optional variable that fails to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LegacyImportPath: os.Getenv("LEGACY_IMPORT_PATH"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.Location, err = loadLocation(os.Getenv("LEDGER_TIMEZONE")); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval, err = getDuration("TICK_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FlushDelay, err = getDuration("FLUSH_DELAY", 600*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.RolloverContinueTag, err = getBool("ROLLOVER_CONTINUE_TAG", false); err != nil {
		return Config{}, err
	}
	if cfg.Categories, err = LoadCategories(os.Getenv("CATEGORIES_FILE")); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadCategories reads a categories file:
//
//	focused: [Work, Study]
//	maintenance: [Food, Chores, Exercise]
//
// An empty path yields aggregate.DefaultCategories.
func LoadCategories(path string) (aggregate.Categories, error) {
	if path == "" {
		return aggregate.DefaultCategories(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return aggregate.Categories{}, fmt.Errorf("CATEGORIES_FILE: %w", err)
	}
	var cats aggregate.Categories
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return aggregate.Categories{}, fmt.Errorf("CATEGORIES_FILE: parse: %w", err)
	}
	return cats, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("LEDGER_TIMEZONE: unknown zone %q", name), err)
	}
	return loc, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
