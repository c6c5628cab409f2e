package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/models"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Bidding  BiddingConfig
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port        string
	LogLevel    string
	CORSOrigins []string
}

// DatabaseConfig selects the ledger store
type DatabaseConfig struct {
	Driver string // memory, sqlite or postgres
	DSN    string
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// BiddingConfig holds the bidding policy and the lifecycle job interval
type BiddingConfig struct {
	Increment         decimal.Decimal
	MinDeposit        decimal.Decimal
	SnipeWindow       time.Duration
	SnipeExtension    time.Duration
	MaxExtensions     int
	CommitRetries     int
	LifecycleInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	defaults := bidding.DefaultPolicy()
	var errs []string

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "memory")),
			DSN:    getEnv("DB_DSN", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour, &errs),
		},
		Bidding: BiddingConfig{
			Increment:         getDecimal("BID_INCREMENT", defaults.Increment, &errs),
			MinDeposit:        getDecimal("MIN_DEPOSIT", defaults.MinDeposit, &errs),
			SnipeWindow:       getDuration("SNIPE_WINDOW", defaults.SnipeWindow, &errs),
			SnipeExtension:    getDuration("SNIPE_EXTENSION", defaults.SnipeExtension, &errs),
			MaxExtensions:     getInt("MAX_EXTENSIONS", defaults.MaxExtensions, &errs),
			CommitRetries:     getInt("COMMIT_RETRIES", defaults.CommitRetries, &errs),
			LifecycleInterval: getDuration("LIFECYCLE_INTERVAL", 5*time.Second, &errs),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	// Validate required fields
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.Database.Driver {
	case "memory":
	case "sqlite", "postgres":
		if cfg.Database.DSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for driver %s", cfg.Database.Driver)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	if !cfg.Bidding.Increment.IsPositive() {
		return nil, fmt.Errorf("BID_INCREMENT must be positive")
	}
	if !models.IsStorableAmount(cfg.Bidding.Increment) || !models.IsStorableAmount(cfg.Bidding.MinDeposit) {
		return nil, fmt.Errorf("BID_INCREMENT and MIN_DEPOSIT allow at most %d decimals", models.AmountScale)
	}
	if cfg.Bidding.SnipeWindow <= 0 || cfg.Bidding.SnipeExtension <= 0 {
		return nil, fmt.Errorf("SNIPE_WINDOW and SNIPE_EXTENSION must be positive")
	}
	if cfg.Bidding.MaxExtensions < 0 || cfg.Bidding.CommitRetries < 0 {
		return nil, fmt.Errorf("MAX_EXTENSIONS and COMMIT_RETRIES must not be negative")
	}

	return cfg, nil
}

// Policy returns the bidding policy described by the configuration
func (c *Config) Policy() bidding.Policy {
	return bidding.Policy{
		Increment:      c.Bidding.Increment,
		MinDeposit:     c.Bidding.MinDeposit,
		SnipeWindow:    c.Bidding.SnipeWindow,
		SnipeExtension: c.Bidding.SnipeExtension,
		MaxExtensions:  c.Bidding.MaxExtensions,
		CommitRetries:  c.Bidding.CommitRetries,
	}
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Server.Port)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDecimal(key string, defaultValue decimal.Decimal, errs *[]string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", key, err))
		return defaultValue
	}
	return d
}

func getDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", key, err))
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int, errs *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", key, err))
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
