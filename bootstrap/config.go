package bootstrap

import (
	"github.com/RangaDM/shopfront/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it via promoted
// methods; structs with their own sections override ApplyDefaults and
// Validate and cascade into the embedded base.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
