package health

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultInterval     = 20 * time.Second
	defaultProbeTimeout = 5 * time.Second
	defaultPath         = "/health"
)

// Config configures the health monitor.
type Config struct {
	// Interval is the period between probe sweeps. Defaults to 20s.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// ProbeTimeout bounds a single probe. Defaults to 5s.
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`

	// Path is the endpoint probed on each service. Defaults to /health.
	Path string `yaml:"path" mapstructure:"path"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
	if c.Path == "" {
		c.Path = defaultPath
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("health: interval must be positive")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("health: probe_timeout must be positive")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("health: path must start with /")
	}
	return nil
}
