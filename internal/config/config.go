// Package config loads and validates application configuration from
// environment variables and an optional tuconnect.{yaml,toml,json} file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the API server.
// Values are populated by Load; environment variables win over the file,
// which wins over the built-in defaults.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// DBMaxConns caps the connection pool. Zero keeps the pgxpool default.
	DBMaxConns int32

	// MigrateOnStart applies pending migrations before the server starts.
	MigrateOnStart bool

	// JWTSecret signs bearer tokens. Required.
	JWTSecret string

	// JWTTTL is how long an issued token stays valid. Defaults to 24h.
	JWTTTL time.Duration

	// JWTIssuer is written to and checked against the iss claim.
	JWTIssuer string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

var defaults = map[string]any{
	"port":             "8080",
	"db_max_conns":     0,
	"migrate_on_start": false,
	"jwt_ttl":          "24h",
	"jwt_issuer":       "tuconnect",
	"log_level":        "info",
	"cors_origins":     "http://localhost:5173",
	"max_body_bytes":   int64(1 << 20),
}

// Load reads configuration and returns a Config.
// Returns an error listing any required variables that are not set, or
// describing the first invalid value.
func Load() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	cfg := Config{
		Port:           v.GetString("port"),
		DatabaseURL:    v.GetString("database_url"),
		DBMaxConns:     v.GetInt32("db_max_conns"),
		MigrateOnStart: v.GetBool("migrate_on_start"),
		JWTSecret:      v.GetString("jwt_secret"),
		JWTTTL:         v.GetDuration("jwt_ttl"),
		JWTIssuer:      v.GetString("jwt_issuer"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		CORSOrigins:    splitCSV(v.GetString("cors_origins")),
		MaxBodyBytes:   v.GetInt64("max_body_bytes"),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be a positive duration, got %q", v.GetString("jwt_ttl"))
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.DBMaxConns < 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must not be negative, got %d", cfg.DBMaxConns)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}

	return cfg, nil
}

// DatabaseURL returns only the database connection string, for tools such as
// the migration CLI that do not need the rest of the server configuration.
func DatabaseURL() (string, error) {
	v, err := newViper()
	if err != nil {
		return "", fmt.Errorf("config.DatabaseURL: %w", err)
	}
	url := v.GetString("database_url")
	if url == "" {
		return "", errors.New("required environment variables not set: DATABASE_URL")
	}
	return url, nil
}

// newViper layers environment variables over the optional config file over
// the defaults.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName("tuconnect")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Keys are the lowercased variable names, so PORT overrides "port".
	v.AutomaticEnv()
	return v, nil
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
