// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds the server settings.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Store           string        `env:"TASKFLOW_STORE" envDefault:"memory"`
	DBPath          string        `env:"DB_PATH" envDefault:"./data/taskflow.db"`
	Seed            bool          `env:"TASKFLOW_SEED" envDefault:"true"`
	SimulateLatency bool          `env:"TASKFLOW_SIMULATE_LATENCY" envDefault:"false"`
	DigestSchedule  string        `env:"TASKFLOW_DIGEST_SCHEDULE" envDefault:"0 0 8 * * *"`
	OTelEndpoint    string        `env:"TASKFLOW_OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"TASKFLOW_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the parser cannot.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("TASKFLOW_STORE must be %q or %q, got %q", StoreMemory, StoreSQLite, c.Store)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("TASKFLOW_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
