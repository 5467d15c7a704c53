// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config filled with defaults; Load layers file and env on top.
// - Validate must pass before a Config is handed to the service.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/eventmatch/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogFile optionally points at a YAML file of packages loaded at start.
	CatalogFile string `koanf:"catalog_file"`

	// WorkerCount sets the number of batch ranking workers.
	WorkerCount int `koanf:"worker_count"`

	// BatchQueueSize bounds the number of batch jobs waiting for a worker.
	BatchQueueSize int `koanf:"batch_queue_size"`

	// MaxBatchSize caps the preference sets accepted by POST /match/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxMatchLimit caps the limit accepted by POST /match.
	MaxMatchLimit int `koanf:"max_match_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      logger.FormatText,
		Addr:           ":9080",
		WorkerCount:    runtime.NumCPU() * 2,
		BatchQueueSize: 1_024,
		MaxBatchSize:   64,
		MaxMatchLimit:  100,
	}
}

// Validate checks that c can be used to start the service.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.BatchQueueSize <= 0:
		return fmt.Errorf("%w: batch_queue_size must be positive", ErrInvalidConfig)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalidConfig)
	case c.MaxMatchLimit <= 0:
		return fmt.Errorf("%w: max_match_limit must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
