package auth

import (
	"errors"
	"time"
)

// Mode selects how admin tokens are verified.
const (
	// ModeDisabled leaves the admin endpoints open.
	ModeDisabled = ""
	// ModeJWT verifies HS256-signed bearer tokens.
	ModeJWT = "jwt"
	// ModeToken compares the bearer token against a bcrypt hash.
	ModeToken = "token"
)

// Config configures admin authentication.
type Config struct {
	// Mode is "jwt", "token", or empty to disable auth.
	Mode string `yaml:"mode" mapstructure:"mode"`

	// Secret is the HMAC signing key (required in jwt mode).
	Secret string `yaml:"secret" mapstructure:"secret"`

	// TokenHash is the bcrypt hash of the admin token (required in token mode).
	TokenHash string `yaml:"token_hash" mapstructure:"token_hash"`

	// Issuer is the "iss" claim on generated tokens (jwt mode).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// TokenTTL is the lifetime of generated tokens (jwt mode, default 1h).
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "shopfront"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
}

// Validate checks required fields for the selected mode.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDisabled:
		return nil
	case ModeJWT:
		if c.Secret == "" {
			return errors.New("auth: secret is required in jwt mode")
		}
	case ModeToken:
		if c.TokenHash == "" {
			return errors.New("auth: token_hash is required in token mode")
		}
	default:
		return errors.New("auth: unsupported mode: " + c.Mode)
	}
	return nil
}
