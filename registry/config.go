package registry

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultRefreshInterval = 5 * time.Minute
	defaultFetchTimeout    = 10 * time.Second
)

// ServiceEntry configures one logical service known to the registry.
type ServiceEntry struct {
	// RemoteKey is the key used for this service in the authoritative
	// document. Defaults to the logical name.
	RemoteKey string `yaml:"remote_key" mapstructure:"remote_key"`

	// Port is appended to bare-host addresses from the document.
	Port int `yaml:"port" mapstructure:"port"`

	// Fallback is the statically configured address used when the
	// authoritative document has never been fetched successfully.
	Fallback string `yaml:"fallback" mapstructure:"fallback"`
}

// Config configures the service registry client.
type Config struct {
	// Source is the URL of the authoritative service document, a flat JSON
	// object mapping service keys to addresses. A github.com repository URL
	// is rewritten to its raw.githubusercontent.com form.
	Source string `yaml:"source" mapstructure:"source"`

	// RefreshInterval is the period between refresh attempts. Defaults to 5m.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// FetchTimeout bounds a single fetch of the document. Defaults to 10s.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`

	// Services maps logical names to their per-service settings.
	Services map[string]ServiceEntry `yaml:"services" mapstructure:"services"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("registry: source URL is required")
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("registry: at least one service must be configured")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("registry: refresh_interval must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("registry: fetch_timeout must be positive")
	}
	return nil
}

// remoteKey returns the document key for a logical service name.
func (c *Config) remoteKey(name string) string {
	if e, ok := c.Services[name]; ok && e.RemoteKey != "" {
		return e.RemoteKey
	}
	return name
}

// NormalizeSource rewrites a github.com repository URL into the raw content
// URL of its service_config.json on the main branch. Any other URL is
// returned unchanged.
func NormalizeSource(src string) string {
	rest, ok := strings.CutPrefix(src, "https://github.com/")
	if !ok {
		rest, ok = strings.CutPrefix(src, "http://github.com/")
	}
	if !ok {
		return src
	}
	rest = strings.TrimSuffix(rest, "/")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 {
		return src
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/main/service_config.json", parts[0], parts[1])
}
