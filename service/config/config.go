package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
// Everything is validated at startup so misconfiguration fails fast. The
// upstream API key is the exception: without it the server still starts and
// reports the problem on each request.
type Config struct {
	// Server configuration
	ServerAddr string
	LogLevel   string

	// Upstream provider configuration
	HeliusAPIKey      string
	HeliusRPCURL      string
	HeliusMetadataURL string
	TokenListURL      string
	UpstreamTimeout   time.Duration

	// Pagination configuration
	YearStart time.Time
	MaxPages  int
	PageSize  int
	PageDelay time.Duration

	// NATS configuration; empty disables summary events
	NATSURL string
}

// Load reads configuration from environment variables and validates all fields.
// Returns an error listing every invalid setting.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	// Server configuration
	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", ":8080")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	// Upstream provider configuration
	cfg.HeliusAPIKey = os.Getenv("HELIUS_API_KEY")
	cfg.HeliusRPCURL = getEnvOrDefault("HELIUS_RPC_URL", "https://mainnet.helius-rpc.com")
	cfg.HeliusMetadataURL = getEnvOrDefault("HELIUS_METADATA_URL", "https://api.helius.xyz/v0/token-metadata")
	cfg.TokenListURL = getEnvOrDefault("TOKEN_LIST_URL", "https://token.jup.ag/strict")

	timeout, err := parseDuration("UPSTREAM_TIMEOUT", "30s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.UpstreamTimeout = timeout
	}

	// Pagination configuration
	yearStart, err := parseTime("YEAR_START", "2025-01-01T00:00:00Z")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.YearStart = yearStart
	}

	maxPages, err := parseInt("MAX_PAGES", 100)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.MaxPages = maxPages
	}

	pageSize, err := parseInt("PAGE_SIZE", 100)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.PageSize = pageSize
	}

	pageDelay, err := parseDuration("PAGE_DELAY", "100ms")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.PageDelay = pageDelay
	}

	// NATS configuration
	cfg.NATSURL = os.Getenv("NATS_URL")

	if len(errs) == 0 {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for server initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerAddr == "" {
		errs = append(errs, fmt.Errorf("ServerAddr is required"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LogLevel must be one of debug, info, warn, error"))
	}

	if c.HeliusRPCURL == "" {
		errs = append(errs, fmt.Errorf("HeliusRPCURL is required"))
	}

	if c.HeliusMetadataURL == "" {
		errs = append(errs, fmt.Errorf("HeliusMetadataURL is required"))
	}

	if c.TokenListURL == "" {
		errs = append(errs, fmt.Errorf("TokenListURL is required"))
	}

	if c.YearStart.IsZero() {
		errs = append(errs, fmt.Errorf("YearStart is required"))
	}

	if c.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("MaxPages must be at least 1"))
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		errs = append(errs, fmt.Errorf("PageSize must be between 1 and 100"))
	}

	if c.PageDelay < 0 {
		errs = append(errs, fmt.Errorf("PageDelay cannot be negative"))
	}

	if c.UpstreamTimeout <= 0 {
		errs = append(errs, fmt.Errorf("UpstreamTimeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}

// parseTime parses an RFC3339 timestamp from an environment variable or uses a default.
func parseTime(key, defaultValue string) (time.Time, error) {
	value := getEnvOrDefault(key, defaultValue)
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid timestamp %q: %w", key, value, err)
	}
	return t.UTC(), nil
}

// parseInt parses an integer from an environment variable or uses a default.
func parseInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}
