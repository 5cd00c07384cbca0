package orchestrator

import (
	"fmt"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// Config configures the order orchestrator.
type Config struct {
	// RequestTimeout bounds the synchronous order call. Defaults to 10s.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// Preflight short-circuits order placement when the health monitor has
	// the order service marked offline. Off by default: the backend is
	// normally given the chance to answer even when the last probe failed.
	Preflight bool `yaml:"preflight" mapstructure:"preflight"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("orchestrator: request_timeout must be positive")
	}
	return nil
}
