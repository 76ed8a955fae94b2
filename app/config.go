package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"print-order/db"
	"print-order/repository"
	"print-order/service"
)

// Config holds the settings read from the environment
type Config struct {
	Port              string
	MaxFiles          int
	MaxFileSize       int64 // Bytes
	MaxCopies         int
	SessionTTL        time.Duration
	MaxSessions       int
	PricingConfigPath string // Optional JSON rate table
	DatabaseURL       string // Optional print_rates source
	DriveCredentials  string // Optional, enables Drive import
	ChromePath        string // Optional, auto-detected when empty
}

// LoadConfig reads the configuration from environment variables, applying defaults
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:              strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		PricingConfigPath: os.Getenv("PRICING_CONFIG_PATH"),
		DriveCredentials:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ChromePath:        os.Getenv("CHROME_PATH"),
	}

	var err error
	if cfg.MaxFiles, err = getEnvInt("MAX_FILES", repository.DefaultMaxFiles); err != nil {
		return nil, err
	}
	maxFileSizeMB, err := getEnvInt("MAX_FILE_SIZE_MB", int(service.DefaultMaxFileSize/(1024*1024)))
	if err != nil {
		return nil, err
	}
	cfg.MaxFileSize = int64(maxFileSizeMB) * 1024 * 1024
	if cfg.MaxCopies, err = getEnvInt("MAX_COPIES", service.DefaultMaxCopies); err != nil {
		return nil, err
	}
	if cfg.MaxSessions, err = getEnvInt("MAX_SESSIONS", repository.DefaultMaxSessions); err != nil {
		return nil, err
	}

	ttl := getEnv("SESSION_TTL", repository.DefaultSessionTTL.String())
	if cfg.SessionTTL, err = time.ParseDuration(ttl); err != nil || cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL %q", ttl)
	}

	// DATABASE_URL wins over the individual DB_* variables
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = db.Params{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		}.ConnString()
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt reads a positive integer, returning fallback when the variable is unset
func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return n, nil
}
