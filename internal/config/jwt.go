// Package config provides JWT configuration functionality.
package config

import (
	"fmt"
)

// JWTConfig holds configuration for admin token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates the admin token configuration from the admin_secret
// and admin_token_hours settings (default: 24). Returns nil without an error
// when no admin secret is configured; reloads are then unauthenticated.
func NewJWTConfig(c *Config) (*JWTConfig, error) {
	if c == nil || c.AdminSecret == "" {
		return nil, nil
	}

	expirationHours := c.AdminTokenHours
	if expirationHours == 0 {
		expirationHours = 24 // default
	}

	config := &JWTConfig{
		Secret:          c.AdminSecret,
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("admin_secret cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("admin_token_hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
