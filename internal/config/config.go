// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDBPassword   = "changeme"
	defaultSeedPassword = "admin1234"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Pool sizing for database/sql.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Valkey (Redis-compatible token store and cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// TokenTTL bounds the lifetime of auth tokens. Zero means tokens live
	// until the user logs out.
	TokenTTL time.Duration

	// CandidateCacheTTL is how long the public candidate listing is cached.
	CandidateCacheTTL time.Duration

	// Rate limit applied to /create/ and /token/ per client IP.
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// TrustedProxies lists the peers whose forwarding headers name the
	// real client. Empty means the TCP peer is always the client.
	TrustedProxies []netip.Prefix

	// Development seed superuser.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads configuration from an optional .env file and the environment,
// applying defaults for development where appropriate. Returns an error if
// critical values are missing in production mode or a value fails to parse.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "votehub"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "votehub"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		SeedAdminEmail:    envOrDefault("SEED_ADMIN_EMAIL", "admin@votehub.local"),
		SeedAdminPassword: envOrDefault("SEED_ADMIN_PASSWORD", defaultSeedPassword),
	}

	var err error
	if cfg.TokenTTL, err = durationOrDefault("TOKEN_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.CandidateCacheTTL, err = durationOrDefault("CANDIDATE_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.AuthRateWindow, err = durationOrDefault("AUTH_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimit, err = intOrDefault("AUTH_RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = prefixList("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = intOrDefault("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = intOrDefault("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.DBConnMaxLifetime, err = durationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.SeedAdminPassword == defaultSeedPassword {
			return nil, fmt.Errorf("SEED_ADMIN_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}

// prefixList parses a comma separated list of CIDRs or bare addresses.
func prefixList(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", key, err)
			}
			out = append(out, p.Masked())
			continue
		}
		ip, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		ip = ip.Unmap()
		out = append(out, netip.PrefixFrom(ip, ip.BitLen()))
	}
	return out, nil
}
