// Package config provides application configuration.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	Port string
	Host string

	// Database settings
	DBPath string

	// Session settings
	SessionSecret string

	// Generative AI settings. An empty key disables the assistant
	// endpoints.
	GeminiAPIKey string

	// Catalog settings. An empty path uses the embedded catalog.
	CatalogPath string

	// Market settings
	TickInterval time.Duration

	// Simulated settlement and delivery delays. Zero values use the
	// package defaults.
	OTPDelay     time.Duration
	CheckDelay   time.Duration
	VerifyDelay  time.Duration
	SettleDelay  time.Duration
	IntlDelay    time.Duration
	BalanceDelay time.Duration

	// Environment
	IsDevelopment bool
}

// New creates a new Config with values from environment variables or
// defaults. A .env file in the working directory is loaded first if
// present.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Host:          getEnv("HOST", "localhost"),
		DBPath:        getEnv("DB_PATH", filepath.Join("data", "lumina.db")),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-32chars!"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		CatalogPath:   getEnv("CATALOG_PATH", ""),
		TickInterval:  getEnvDuration("TICK_INTERVAL_MS", 3000),
		OTPDelay:      getEnvDuration("OTP_DELAY_MS", 0),
		CheckDelay:    getEnvDuration("CHECK_DELAY_MS", 0),
		VerifyDelay:   getEnvDuration("VERIFY_DELAY_MS", 0),
		SettleDelay:   getEnvDuration("SETTLE_DELAY_MS", 0),
		IntlDelay:     getEnvDuration("INTL_DELAY_MS", 0),
		BalanceDelay:  getEnvDuration("BALANCE_DELAY_MS", 0),
		IsDevelopment: getEnv("ENV", "development") == "development",
	}
}

// Address returns the full address to bind the server to.
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration reads a millisecond count from the environment.
func getEnvDuration(key string, defaultMillis int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(defaultMillis) * time.Millisecond
}
