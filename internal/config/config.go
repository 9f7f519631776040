package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth0Config holds Auth0 JWT verification configuration.
type Auth0Config struct {
	Domain          string        // e.g., "your-tenant.auth0.com"
	Audience        string        // e.g., "https://api.mentorhub.io"
	RefreshInterval time.Duration // JWKS background refresh
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// FluentBitConfig configures optional log forwarding to Fluent Bit.
type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
}

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Auth0       Auth0Config
	Log         LogConfig
	FluentBit   FluentBitConfig
}

// Load reads configuration from environment variables, after applying a
// .env file from the working directory if one exists.
// It fails fast with clear errors for missing required values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	var missing []string

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "staging" && env != "production" {
		return nil, fmt.Errorf("invalid ENV value %q: must be development, staging, or production", env)
	}

	// Database configuration (required)
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	// Auth0 configuration (required)
	auth0Domain := os.Getenv("AUTH0_DOMAIN")
	if auth0Domain == "" {
		missing = append(missing, "AUTH0_DOMAIN")
	}

	auth0Audience := os.Getenv("AUTH0_AUDIENCE")
	if auth0Audience == "" {
		missing = append(missing, "AUTH0_AUDIENCE")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	if err := validateDatabaseURL(databaseURL); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	if err := validateAuth0Domain(auth0Domain); err != nil {
		return nil, fmt.Errorf("invalid AUTH0_DOMAIN: %w", err)
	}

	logCfg, err := loadLogConfig(env)
	if err != nil {
		return nil, err
	}

	fluentCfg := FluentBitConfig{
		Enabled: getEnvBool("FLUENTBIT_ENABLED", false),
		Host:    os.Getenv("FLUENTBIT_HOST"),
		Port:    getEnvInt("FLUENTBIT_PORT", 24224),
	}
	if fluentCfg.Enabled && fluentCfg.Host == "" {
		return nil, fmt.Errorf("FLUENTBIT_HOST is required when FLUENTBIT_ENABLED is true")
	}

	dbConfig := DatabaseConfig{
		URL:             databaseURL,
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
	}

	return &Config{
		Port:        port,
		Environment: env,
		Database:    dbConfig,
		Auth0: Auth0Config{
			Domain:          auth0Domain,
			Audience:        auth0Audience,
			RefreshInterval: time.Duration(getEnvInt("JWKS_REFRESH_INTERVAL", 600)) * time.Second,
		},
		Log:       logCfg,
		FluentBit: fluentCfg,
	}, nil
}

// loadLogConfig reads LOG_LEVEL and LOG_FORMAT. Development defaults to
// colored text output, every other environment to JSON.
func loadLogConfig(env string) (LogConfig, error) {
	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level == "" {
		level = "info"
	}
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn, or error", level)
	}

	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "" {
		format = "json"
		if env == "development" {
			format = "text"
		}
	}
	if format != "text" && format != "json" {
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", format)
	}

	return LogConfig{Level: level, Format: format}, nil
}

// validateAuth0Domain ensures the Auth0 domain is properly formatted.
func validateAuth0Domain(domain string) error {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}

	// Should not include protocol
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return fmt.Errorf("domain should not include protocol (http:// or https://)")
	}

	// Should look like a domain
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("domain must be a valid hostname (e.g., your-tenant.auth0.com)")
	}

	return nil
}

// validateDatabaseURL ensures the database URL is a valid PostgreSQL connection string.
func validateDatabaseURL(dbURL string) error {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return fmt.Errorf("URL must use postgres:// or postgresql:// scheme, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
