package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"spendbook/internal/currency"
)

type Config struct {
	// HTTP server
	Port string

	// Storage
	DBPath      string
	DataBackend string

	// Display
	Currency string

	// Report export
	ReportDir string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("SPENDBOOK_DB_PATH", "./data/spendbook.db"),
		DataBackend: getEnv("DATA_BACKEND", "sqlite"),
		Currency:    getEnv("CURRENCY", "USD"),
		ReportDir:   getEnv("REPORT_DIR", "./reports"),
	}
}

// Validate checks the configuration and returns a combined error when any
// field is unusable.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "sqlite", "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite memory]", c.DataBackend))
	}

	if c.DataBackend == "sqlite" {
		if c.DBPath == "" {
			errs = append(errs, "database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if !currency.IsSupported(c.Currency) {
		errs = append(errs, fmt.Sprintf("unsupported currency '%s'", c.Currency))
	}

	if c.ReportDir == "" {
		errs = append(errs, "report directory cannot be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
