package config

import (
	"fmt"

	"github.com/RangaDM/shopfront/auth"
	"github.com/RangaDM/shopfront/health"
	"github.com/RangaDM/shopfront/observability"
	"github.com/RangaDM/shopfront/orchestrator"
	"github.com/RangaDM/shopfront/readmodel"
	"github.com/RangaDM/shopfront/registry"
	"github.com/RangaDM/shopfront/ringlog"
	"github.com/RangaDM/shopfront/server"
)

// Default registry wiring for the storefront backends. The authoritative
// document keys services by their deployment names; the gateway addresses
// them by short logical names.
const defaultRegistrySource = "https://github.com/RangaDM/cloud-components-config"

// AppConfig is the full gateway configuration. Sections own their defaults
// and validation; this struct cascades into them.
type AppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server         server.Config        `yaml:"server" mapstructure:"server"`
	Registry       registry.Config      `yaml:"registry" mapstructure:"registry"`
	Health         health.Config        `yaml:"health" mapstructure:"health"`
	ReadModels     readmodel.Config     `yaml:"read_models" mapstructure:"read_models"`
	Orchestrator   orchestrator.Config  `yaml:"orchestrator" mapstructure:"orchestrator"`
	InteractionLog ringlog.Config       `yaml:"interaction_log" mapstructure:"interaction_log"`
	Observability  observability.Config `yaml:"observability" mapstructure:"observability"`
	Auth           auth.Config          `yaml:"auth" mapstructure:"auth"`
}

// ApplyDefaults fills in zero-value fields across all sections. An empty
// registry section is seeded with the storefront backends so the gateway
// runs against a local deployment with no config file at all.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = "shopfront"
	}

	if c.Registry.Source == "" {
		c.Registry.Source = defaultRegistrySource
	}
	if len(c.Registry.Services) == 0 {
		c.Registry.Services = map[string]registry.ServiceEntry{
			"order":        {RemoteKey: "order-service", Port: 8001, Fallback: "http://localhost:8001"},
			"inventory":    {RemoteKey: "inventory-service", Port: 8002, Fallback: "http://localhost:8002"},
			"notification": {RemoteKey: "notification-service", Port: 8003, Fallback: "http://localhost:8003"},
		}
	}

	c.Server.ApplyDefaults()
	c.Registry.ApplyDefaults()
	c.Health.ApplyDefaults()
	c.ReadModels.ApplyDefaults()
	c.Orchestrator.ApplyDefaults()
	c.InteractionLog.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Auth.ApplyDefaults()
}

// Validate checks all sections, failing on the first invalid one.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Registry.Validate(); err != nil {
		return err
	}
	if err := c.Health.Validate(); err != nil {
		return err
	}
	if err := c.ReadModels.Validate(); err != nil {
		return err
	}
	if err := c.Orchestrator.Validate(); err != nil {
		return err
	}
	if err := c.InteractionLog.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return nil
}
