package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"delphi"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MaxEventNameLength    int `env:"MAX_EVENT_NAME_LENGTH" envDefault:"100"`
	MaxDescriptionLength  int `env:"MAX_DESCRIPTION_LENGTH" envDefault:"500"`
	MaxEvidenceCount      int `env:"MAX_EVIDENCE_COUNT" envDefault:"10"`
	MaxEvidenceItemLength int `env:"MAX_EVIDENCE_ITEM_LENGTH" envDefault:"300"`
}

// Limits is the validation policy handed to the operations layer. The core
// record type receives these as caller-side caps; it does not define them.
type Limits struct {
	MaxEventNameLength    int
	MaxDescriptionLength  int
	MaxEvidenceCount      int
	MaxEvidenceItemLength int
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Config{
		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: getEnvWithDefault("DB_PASSWORD", "postgres"),
		DBName:     getEnvWithDefault("DB_NAME", "delphi"),
		DBSSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		MaxEventNameLength:    getEnvIntWithDefault("MAX_EVENT_NAME_LENGTH", 100),
		MaxDescriptionLength:  getEnvIntWithDefault("MAX_DESCRIPTION_LENGTH", 500),
		MaxEvidenceCount:      getEnvIntWithDefault("MAX_EVIDENCE_COUNT", 10),
		MaxEvidenceItemLength: getEnvIntWithDefault("MAX_EVIDENCE_ITEM_LENGTH", 300),
	}

	return &cfg, nil
}

// Limits returns the validation policy subset of the configuration.
func (c *Config) Limits() Limits {
	return Limits{
		MaxEventNameLength:    c.MaxEventNameLength,
		MaxDescriptionLength:  c.MaxDescriptionLength,
		MaxEvidenceCount:      c.MaxEvidenceCount,
		MaxEvidenceItemLength: c.MaxEvidenceItemLength,
	}
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
