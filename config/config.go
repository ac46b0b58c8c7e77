package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// CORS
	AllowedOrigins []string

	// Autosave
	AutosaveDelay time.Duration

	// Budget approval: comma-separated list of actors allowed to
	// approve. Empty means any actor may approve.
	Approvers []string

	// Investment plan import source: base URL of the planning service.
	// Empty disables the import endpoint.
	PlanServiceURL string

	// Upload directory for signed documents.
	UploadDir string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/fiscal.db"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
		AutosaveDelay:  getEnvDuration("AUTOSAVE_DELAY", 2*time.Second),
		Approvers:      getEnvList("BUDGET_APPROVERS", nil),
		PlanServiceURL: getEnv("PLAN_SERVICE_URL", ""),
		UploadDir:      getEnv("UPLOAD_DIR", "./data/uploads"),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AutosaveDelay < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid autosave delay %v: must be at least 100ms", c.AutosaveDelay))
	} else if c.AutosaveDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid autosave delay %v: must be at most 1 minute", c.AutosaveDelay))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
