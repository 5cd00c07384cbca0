// Package auth verifies admin bearer tokens.
//
// Two modes are supported. In jwt mode the service signs and parses HS256
// tokens with a shared secret; in token mode the bearer token is compared
// against a bcrypt hash kept in config, so the plain token never appears in
// configuration files. With no mode configured the admin endpoints stay open.
package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims are the JWT claims carried by admin tokens.
type Claims struct {
	gojwt.RegisteredClaims
	Role string `json:"role"`
}

// Service verifies admin tokens according to the configured mode.
type Service struct {
	config Config
}

// New creates an auth service.
func New(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{config: cfg}, nil
}

// Enabled reports whether admin endpoints require a token.
func (s *Service) Enabled() bool {
	return s.config.Mode != ModeDisabled
}

// GenerateToken creates a signed HS256 token for the given subject. Only
// valid in jwt mode.
func (s *Service) GenerateToken(subject, role string) (string, error) {
	if s.config.Mode != ModeJWT {
		return "", errors.New("auth: token generation requires jwt mode")
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.config.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
		Role: role,
	}
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns its claims. It verifies
// the signature, expiry, and issuer.
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.config.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}

// VerifyStaticToken compares a bearer token against the configured bcrypt
// hash. Only valid in token mode.
func (s *Service) VerifyStaticToken(token string) error {
	if s.config.Mode != ModeToken {
		return errors.New("auth: static verification requires token mode")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.TokenHash), []byte(token)); err != nil {
		return errors.New("auth: invalid token")
	}
	return nil
}

// ValidatorFunc returns a validator the server middleware can call without
// knowing which mode is active. It returns nil when auth is disabled so the
// caller can skip the middleware entirely.
func (s *Service) ValidatorFunc() func(string) (any, error) {
	switch s.config.Mode {
	case ModeJWT:
		return func(token string) (any, error) {
			return s.ParseToken(token)
		}
	case ModeToken:
		return func(token string) (any, error) {
			if err := s.VerifyStaticToken(token); err != nil {
				return nil, err
			}
			return &Claims{Role: "admin"}, nil
		}
	default:
		return nil
	}
}

// keyFunc rejects tokens signed with anything but HS256.
func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("auth: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.config.Secret), nil
}

// HashToken produces a bcrypt hash of a plain admin token, suitable for the
// token_hash config field.
func HashToken(token string) (string, error) {
	if len(token) < 8 {
		return "", errors.New("auth: minimum token length is 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash token: %w", err)
	}
	return string(hash), nil
}
