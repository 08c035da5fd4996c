package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Config is the full application configuration surface.
type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	CheckoutServiceURL string // empty = use the local checkout subsystem
	LowStockCron       string // empty = scheduler disabled
}

// Load reads the environment (optionally seeded from a .env file) and
// materializes a Config.
func Load() (*Config, error) {
	// Missing .env files are acceptable when configuration comes from the
	// environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getenvWithDefault("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          getenvWithDefault("JWT_SECRET", "dev-secret-change-me"),
		CheckoutServiceURL: os.Getenv("CHECKOUT_SERVICE_URL"),
		LowStockCron:       os.Getenv("LOW_STOCK_CRON"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures required fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
