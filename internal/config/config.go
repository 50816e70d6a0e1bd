// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no --config flag is given and the file exists.
const DefaultConfigFile = "bpk_stats.yml"

// Config represents the configuration that can be loaded from a YAML or JSON file.
// All fields are optional; missing values use defaults or come from the environment.
type Config struct {
	// Source
	BaseURL     string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`               // Site the artifacts are served from
	DataDir     string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`                                       // Local site root, instead of base_url
	DocumentSet string `json:"document_set,omitempty" yaml:"document_set,omitempty" validate:"omitempty,oneof=aggregated compiled all"`

	// Loading
	Strategy       string   `json:"strategy,omitempty" yaml:"strategy,omitempty" validate:"omitempty,oneof=sequential parallel"`
	SchemaMode     string   `json:"schema_mode,omitempty" yaml:"schema_mode,omitempty" validate:"omitempty,oneof=lenient strict off"`
	RequestTimeout Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty" validate:"gte=0"`
	Retries        int      `json:"retries,omitempty" yaml:"retries,omitempty" validate:"gte=0,lte=10"`

	// Server
	Port            int      `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	AdminSecret     string   `json:"admin_secret,omitempty" yaml:"admin_secret,omitempty" validate:"omitempty,min=16"` // Enables JWT auth on POST /reload
	AdminTokenHours int      `json:"admin_token_hours,omitempty" yaml:"admin_token_hours,omitempty" validate:"gte=0"`
	Watch           bool     `json:"watch,omitempty" yaml:"watch,omitempty"` // Reload when files under data_dir change
	WatchDebounce   Duration `json:"watch_debounce,omitempty" yaml:"watch_debounce,omitempty" validate:"gte=0"`
	RateLimitRPS    float64  `json:"rate_limit_rps,omitempty" yaml:"rate_limit_rps,omitempty" validate:"gte=0"`
	RateLimitBurst  int      `json:"rate_limit_burst,omitempty" yaml:"rate_limit_burst,omitempty" validate:"gte=0"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=console json"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DocumentSet:     "aggregated",
		Strategy:        "sequential",
		SchemaMode:      "lenient",
		RequestTimeout:  Duration(30 * time.Second),
		Port:            8080,
		AdminTokenHours: 24,
		WatchDebounce:   Duration(500 * time.Millisecond),
		RateLimitRPS:    10,
		RateLimitBurst:  20,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// LoadConfig loads configuration from a YAML (.yml, .yaml) or JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}

	return &cfg, nil
}

// Resolve builds the effective configuration: the file at path (or
// DefaultConfigFile when path is empty and that file exists), then
// environment overrides, then defaults for anything still unset.
func Resolve(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from the environment:
// BPK_BASE_URL, BPK_DATA_DIR, DATABASE_URL, BPK_ADMIN_SECRET, BPK_LOG_LEVEL and PORT.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("BPK_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getenv("BPK_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("BPK_ADMIN_SECRET"); v != "" {
		c.AdminSecret = v
	}
	if v := getenv("BPK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their config file key
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.BaseURL != "" && c.DataDir != "" {
		return fmt.Errorf("config error: 'base_url' and 'data_dir' are mutually exclusive")
	}
	if c.Watch && c.BaseURL != "" {
		return fmt.Errorf("config error: 'watch' requires 'data_dir'")
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("config error: %w", err)
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
	}

	if c.DataDir != "" {
		if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: data directory not found: %s", c.DataDir)
		}
	}

	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "url":
		return fmt.Sprintf("'%s' must be an absolute URL", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("'%s' must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("'%s' must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("'%s' failed %s validation", fe.Field(), fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" && result.DataDir == "" {
		result.BaseURL = defaults.BaseURL
		result.DataDir = defaults.DataDir
	}
	if result.DocumentSet == "" {
		result.DocumentSet = defaults.DocumentSet
	}
	if result.Strategy == "" {
		result.Strategy = defaults.Strategy
	}
	if result.SchemaMode == "" {
		result.SchemaMode = defaults.SchemaMode
	}
	if result.AdminSecret == "" {
		result.AdminSecret = defaults.AdminSecret
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Numeric fields: use default if zero
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.Retries == 0 {
		result.Retries = defaults.Retries
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.AdminTokenHours == 0 {
		result.AdminTokenHours = defaults.AdminTokenHours
	}
	if result.WatchDebounce == 0 {
		result.WatchDebounce = defaults.WatchDebounce
	}
	if result.RateLimitRPS == 0 {
		result.RateLimitRPS = defaults.RateLimitRPS
	}
	if result.RateLimitBurst == 0 {
		result.RateLimitBurst = defaults.RateLimitBurst
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Redacted returns a copy safe to print, with secrets masked.
func (c Config) Redacted() Config {
	if c.AdminSecret != "" {
		c.AdminSecret = "********"
	}
	if c.DatabaseURL != "" {
		c.DatabaseURL = "********"
	}
	return c
}
