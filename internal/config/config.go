// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir             string // Base directory for all databases (always absolute)
	LogLevel            string
	GeminiAPIKey        string // Optional; narrative and classification fall back to templates and rules without it
	GeminiModel         string
	MarketTimezone      string
	Port                int
	NarrativeTimeout    time.Duration
	ClassifierTimeout   time.Duration
	PriceTTL            time.Duration
	AuditRetention      time.Duration
	DriftThreshold      float64
	VolatilityThreshold float64
	DevMode             bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("LEDGERWISE_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:             absDataDir,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Port:                getEnvAsInt("PORT", 8080),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		NarrativeTimeout:    time.Duration(getEnvAsInt("NARRATIVE_TIMEOUT_MS", 5000)) * time.Millisecond,
		ClassifierTimeout:   time.Duration(getEnvAsInt("CLASSIFIER_TIMEOUT_MS", 3000)) * time.Millisecond,
		MarketTimezone:      getEnv("MARKET_TIMEZONE", "America/New_York"),
		DriftThreshold:      getEnvAsFloat("DRIFT_THRESHOLD", 5),
		VolatilityThreshold: getEnvAsFloat("VOLATILITY_THRESHOLD", 25),
		PriceTTL:            time.Duration(getEnvAsInt("PRICE_TTL_MINUTES", 10)) * time.Minute,
		AuditRetention:      time.Duration(getEnvAsInt("AUDIT_RETENTION_DAYS", 365)) * 24 * time.Hour,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.NarrativeTimeout <= 0 {
		return fmt.Errorf("NARRATIVE_TIMEOUT_MS must be positive")
	}
	if c.ClassifierTimeout <= 0 {
		return fmt.Errorf("CLASSIFIER_TIMEOUT_MS must be positive")
	}
	if c.PriceTTL <= 0 {
		return fmt.Errorf("PRICE_TTL_MINUTES must be positive")
	}
	if c.AuditRetention <= 0 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be positive")
	}
	if c.DriftThreshold <= 0 || c.DriftThreshold >= 100 {
		return fmt.Errorf("DRIFT_THRESHOLD must be in (0, 100), got %v", c.DriftThreshold)
	}
	if c.VolatilityThreshold <= 0 || c.VolatilityThreshold >= 100 {
		return fmt.Errorf("VOLATILITY_THRESHOLD must be in (0, 100), got %v", c.VolatilityThreshold)
	}
	if _, err := time.LoadLocation(c.MarketTimezone); err != nil {
		return fmt.Errorf("invalid MARKET_TIMEZONE %q: %w", c.MarketTimezone, err)
	}
	return nil
}

// NarrativeEnabled reports whether a text generation backend is configured
func (c *Config) NarrativeEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
