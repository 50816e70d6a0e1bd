package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DisabledWithoutSecret(t *testing.T) {
	cfg, err := NewJWTConfig(&Config{})
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = NewJWTConfig(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	cfg, err := NewJWTConfig(&Config{AdminSecret: "test-secret-key-123"})
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key-123", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	tests := []struct {
		name          string
		hours         int
		expectedHours int
		wantErr       bool
	}{
		{name: "custom expiration 12 hours", hours: 12, expectedHours: 12},
		{name: "minimum expiration 1 hour", hours: 1, expectedHours: 1},
		{name: "large expiration", hours: 168, expectedHours: 168},
		{name: "negative expiration", hours: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(&Config{AdminSecret: "test-secret-key-123", AdminTokenHours: tt.hours})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "admin_token_hours must be at least 1 hour")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
		})
	}
}
