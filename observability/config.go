package observability

import (
	"fmt"
	"time"
)

const (
	defaultEndpoint       = "localhost:4318"
	defaultSampleRate     = 1.0
	defaultMetricInterval = 15 * time.Second
)

// Config configures OpenTelemetry tracing and metrics export.
type Config struct {
	// Enabled turns telemetry export on. When false, Init returns a nil
	// provider and the gateway runs without telemetry.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Endpoint is the OTLP HTTP endpoint host:port. Defaults to
	// localhost:4318.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Insecure allows plain HTTP export (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	// SampleRate is the trace sampling rate (0.0 to 1.0). Defaults to 1.0.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`

	// MetricInterval is the metric export interval. Defaults to 15s.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.SampleRate <= 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = defaultMetricInterval
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("observability: endpoint is required")
	}
	if c.SampleRate <= 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be in (0, 1]")
	}
	if c.MetricInterval <= 0 {
		return fmt.Errorf("observability: metric_interval must be positive")
	}
	return nil
}
