package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Record format names accepted by FRAMEMETRICS_RECORD_FORMAT.
const (
	RecordFormatV1 = "v1"
	RecordFormatV2 = "v2"
)

// Config holds the runtime settings of the dumper. Every field can be set
// through the environment; unset or invalid values keep their defaults.
type Config struct {
	QueueSize      int    `env:"FRAMEMETRICS_QUEUE_SIZE" envDefault:"1024"`       // background worker queue capacity
	RecordFormat   string `env:"FRAMEMETRICS_RECORD_FORMAT" envDefault:"v1"`      // v1 (legacy) or v2
	SyncEachRecord bool   `env:"FRAMEMETRICS_SYNC_EACH_RECORD" envDefault:"true"` // fsync after every record
	RollingSize    int    `env:"FRAMEMETRICS_ROLLING_SIZE" envDefault:"60"`       // samples in the status rolling average
	Debug          bool   `env:"FRAMEMETRICS_DEBUG" envDefault:"false"`           // debug level logging
}

// Default returns the configuration with every default applied and the
// environment ignored.
func Default() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// Load reads the configuration from the environment.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		LogError(context.Background(), "invalid framemetrics environment, using defaults", zap.Error(err))
		return Default()
	}
	return cfg.normalize()
}

func (c Config) normalize() Config {
	def := Default()

	if c.QueueSize < 1 {
		c.QueueSize = def.QueueSize
	}
	if c.RollingSize < 1 {
		c.RollingSize = def.RollingSize
	}
	if c.RecordFormat != RecordFormatV1 && c.RecordFormat != RecordFormatV2 {
		c.RecordFormat = def.RecordFormat
	}
	return c
}
