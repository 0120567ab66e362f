// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Development credentials. Production refuses to start with them.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
	defaultDBPassword    = "changeme"
)

// minSessionSecretLen is the shortest SESSION_SECRET accepted in production.
const minSessionSecretLen = 32

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	BasePath string // mount point, "" or "/cms"

	// Database: "sqlite" (default) or "postgres"
	DBDriver   string
	SQLitePath string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Sessions: "cookie" (default) or "valkey"
	SessionBackend string
	SessionSecret  string

	// Valkey (Redis-compatible session backend)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Administrator
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	AdminTOTPSecret   string

	// Theme stylesheet
	StylesheetPath  string
	FallbackCSSPath string // optional on-disk override of the bundled fallback
	ThemeCDNBase    string // optional override of the PicoCSS CDN prefix
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		BasePath: normalizeBasePath(os.Getenv("BASE_PATH")),

		DBDriver:   strings.ToLower(envOrDefault("DB_DRIVER", "sqlite")),
		SQLitePath: envOrDefault("SQLITE_PATH", "data/picocms.db"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "picocms"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "picocms"),

		SessionBackend: strings.ToLower(envOrDefault("SESSION_BACKEND", "cookie")),
		SessionSecret:  os.Getenv("SESSION_SECRET"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AdminUsername:     envOrDefault("ADMIN_USERNAME", defaultAdminUsername),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTOTPSecret:   strings.TrimSpace(os.Getenv("ADMIN_TOTP_SECRET")),

		StylesheetPath:  envOrDefault("STYLESHEET_PATH", "data/style.css"),
		FallbackCSSPath: os.Getenv("FALLBACK_CSS_PATH"),
		ThemeCDNBase:    os.Getenv("THEME_CDN_BASE"),
	}

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("VALKEY_DB must be a non-negative integer, got %q", os.Getenv("VALKEY_DB"))
	}
	cfg.ValkeyDB = db

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}

	switch cfg.SessionBackend {
	case "cookie", "valkey":
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be cookie or valkey, got %q", cfg.SessionBackend)
	}

	// Development falls back to the well-known admin/admin login.
	if cfg.AdminPasswordHash == "" && cfg.AdminPassword == "" && !cfg.IsProduction() {
		cfg.AdminPassword = defaultAdminPassword
	}

	if cfg.IsProduction() {
		if err := cfg.validateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) validateProduction() error {
	var errs []error
	if c.AdminPasswordHash == "" && (c.AdminPassword == "" || c.AdminPassword == defaultAdminPassword) {
		errs = append(errs, errors.New("ADMIN_PASSWORD_HASH or a non-default ADMIN_PASSWORD must be set in production"))
	}
	if c.SessionBackend == "cookie" && len(c.SessionSecret) < minSessionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET of at least %d characters must be set in production", minSessionSecretLen))
	}
	if c.DBDriver == "postgres" && c.DBPassword == defaultDBPassword {
		errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
	}
	return errors.Join(errs...)
}

// DSN returns the connection string for the configured driver. For SQLite
// this is the database file path.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName,
		)
	}
	return c.SQLitePath
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// normalizeBasePath turns "cms", "/cms/" and "/cms" into "/cms" and the root
// into "".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
