package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// DatabaseDSN points at the listing catalog. The default is a shared
	// in-memory SQLite database rebuilt on every start.
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:dealdesk?mode=memory&cache=shared"`
	SeedCatalog bool   `env:"SEED_CATALOG" envDefault:"true"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Optional YAML file overlaying the default market assumptions
	AssumptionsFile string `env:"ASSUMPTIONS_FILE"`

	BatchProcessing struct {
		// Largest batch accepted by the batch underwriting endpoint
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of listings underwritten concurrently
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"4"`
	}

	LLM struct {
		GeminiAPIKey string        `env:"GEMINI_API_KEY"`
		Model        string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
		Timeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	}
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
