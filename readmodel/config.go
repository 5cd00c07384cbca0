package readmodel

import (
	"fmt"
	"time"
)

const (
	defaultFetchTimeout          = 5 * time.Second
	defaultNotificationsInterval = 10 * time.Second
)

// Config configures the read-model refreshers.
type Config struct {
	// FetchTimeout bounds a single view refresh. Defaults to 5s.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`

	// NotificationsInterval is the period between notification view
	// refreshes. Defaults to 10s. The products view has no timer; it
	// refreshes on demand.
	NotificationsInterval time.Duration `yaml:"notifications_interval" mapstructure:"notifications_interval"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	if c.NotificationsInterval <= 0 {
		c.NotificationsInterval = defaultNotificationsInterval
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("readmodel: fetch_timeout must be positive")
	}
	if c.NotificationsInterval <= 0 {
		return fmt.Errorf("readmodel: notifications_interval must be positive")
	}
	return nil
}
