package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/stockpeek/chartsync/internal/model"
)

// Config holds all chart engine configuration. The host application supplies
// the base URL and auth token; everything else has workable defaults.
type Config struct {
	BaseURL        string
	AuthToken      string
	Symbol         string
	Period         model.Period
	Representation string
	RequestTimeout int // seconds
	RequestsPerSec int
	MaxRetries     int
	LogLevel       string
}

// Load initializes configuration from environment variables.
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.BaseURL = getEnvWithDefault("CHART_API_BASE_URL", "http://localhost:8000/api")
	cfg.AuthToken = os.Getenv("CHART_API_TOKEN")
	cfg.Symbol = getEnvWithDefault("SYMBOL", "AAPL")
	cfg.Representation = getEnvWithDefault("CHART_TYPE", "line")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)
	cfg.MaxRetries = getEnvIntWithDefault("MAX_RETRIES", 0)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	period, err := model.ParsePeriod(getEnvWithDefault("PERIOD", "1mo"))
	if err != nil {
		log.Warn().Err(err).Msg("falling back to default period")
		period = model.Period1Mo
	}
	cfg.Period = period

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
