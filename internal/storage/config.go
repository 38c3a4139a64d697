package storage

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the session ledger settings
type Config struct {
	Enabled bool   `env:"FRAMEMETRICS_LEDGER_ENABLED" envDefault:"false"`
	DBPath  string `env:"FRAMEMETRICS_LEDGER_PATH"` // empty selects the memory backend
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse ledger env: %w", err)
	}
	return config, nil
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *Config {
	return &Config{
		Enabled: true,
		DBPath:  ":memory:",
	}
}
