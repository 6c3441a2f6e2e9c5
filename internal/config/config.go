// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinSecretLength is the minimum JWT secret size for HMAC-SHA256.
const MinSecretLength = 32

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	LogLevel slog.Level
}

type ServerConfig struct {
	Port string
	Env  string
	// TrustProxy lets forwarding headers set the client address. Enable it only
	// behind a reverse proxy that overwrites them.
	TrustProxy bool
}

type DatabaseConfig struct {
	Path string
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type SecurityConfig struct {
	BcryptCost int
	// AuthRatePerMinute and AuthBurst bound unauthenticated auth requests per client.
	AuthRatePerMinute float64
	AuthBurst         int
}

// Load reads an optional .env file, then builds the configuration from the
// environment. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "campusconnect.db"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getEnv("JWT_ISSUER", "campusconnect"),
		},
		Security: SecurityConfig{
			AuthBurst: 10,
		},
	}

	var err error
	if cfg.JWT.TTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Security.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", "12")); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cfg.Security.AuthRatePerMinute, err = strconv.ParseFloat(getEnv("AUTH_RATE_PER_MINUTE", "10"), 64); err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_PER_MINUTE: %w", err)
	}
	if cfg.Server.TrustProxy, err = strconv.ParseBool(getEnv("TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants main relies on.
func (c *Config) Validate() error {
	switch {
	case c.JWT.Secret == "":
		return errors.New("JWT_SECRET environment variable is required")
	case len(c.JWT.Secret) < MinSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", MinSecretLength)
	case c.JWT.TTL <= 0:
		return errors.New("JWT_TTL must be positive")
	case c.Security.BcryptCost < 4 || c.Security.BcryptCost > 14:
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.Security.BcryptCost)
	case !finitePositive(c.Security.AuthRatePerMinute):
		return errors.New("AUTH_RATE_PER_MINUTE must be a positive finite number")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Env, "development")
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
