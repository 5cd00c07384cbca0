package ringlog

import "fmt"

const defaultCapacity = 250

// Config configures the interaction log.
type Config struct {
	// Capacity is the maximum number of entries retained. When the log is
	// full the oldest entry is evicted. Defaults to 250.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Capacity <= 0 {
		c.Capacity = defaultCapacity
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("ringlog: capacity must be positive")
	}
	return nil
}
