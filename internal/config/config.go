// Package config handles configuration loading and validation for xroadfields.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	// Backend is the admin API the console talks to.
	Backend BackendConfig `toml:"backend" json:"backend" yaml:"backend"`

	// WSDL is the service catalogue to list operations from.
	WSDL WSDLConfig `toml:"wsdl" json:"wsdl" yaml:"wsdl"`

	// UI controls the terminal interface.
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Fixtures configures the stand-in backend started with --web.
	Fixtures FixturesConfig `toml:"fixtures" json:"fixtures" yaml:"fixtures"`
}

// BackendConfig holds admin API connection settings.
type BackendConfig struct {
	URL string `toml:"url" json:"url" yaml:"url"`

	// TimeoutSeconds bounds service list, field and save calls.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`

	// RequestTimeoutSeconds bounds test requests, which go through the gateway.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
}

// WSDLConfig holds the WSDL location.
type WSDLConfig struct {
	URL string `toml:"url" json:"url" yaml:"url"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	// MessageTTLSeconds is how long success messages stay visible.
	MessageTTLSeconds int `toml:"message_ttl_seconds" json:"message_ttl_seconds" yaml:"message_ttl_seconds"`

	// IndentWidth is the number of columns per tree level.
	IndentWidth int `toml:"indent_width" json:"indent_width" yaml:"indent_width"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `toml:"level" json:"level" yaml:"level"`
	File       string `toml:"file" json:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`
	Stderr     bool   `toml:"stderr" json:"stderr" yaml:"stderr"`
}

// FixturesConfig holds settings of the fixture backend.
type FixturesConfig struct {
	File string `toml:"file" json:"file" yaml:"file"`
	Addr string `toml:"addr" json:"addr" yaml:"addr"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:                   "http://localhost:5000",
			TimeoutSeconds:        10,
			RequestTimeoutSeconds: 30,
		},
		WSDL: WSDLConfig{
			URL: "https://ariregxmlv6.rik.ee/?wsdl",
		},
		UI: UIConfig{
			MessageTTLSeconds: 3,
			IndentWidth:       2,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       defaultLogFile(),
			MaxSizeMB:  1,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
		Fixtures: FixturesConfig{
			Addr: ":5000",
		},
	}
}

// Timeout returns the backend timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// RequestTimeout returns the test-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeoutSeconds) * time.Second
}

// MessageTTL returns the success message lifetime as a duration.
func (c *Config) MessageTTL() time.Duration {
	return time.Duration(c.UI.MessageTTLSeconds) * time.Second
}

// ApplyEnvOverrides applies XROADFIELDS_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("XROADFIELDS_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("XROADFIELDS_WSDL_URL"); v != "" {
		c.WSDL.URL = v
	}
	if v := os.Getenv("XROADFIELDS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	} else if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("XROADFIELDS_FIXTURES"); v != "" {
		c.Fixtures.File = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Backend.URL == "" {
		errs = append(errs, errors.New("backend.url is required"))
	} else if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend.url %q is not an absolute URL", c.Backend.URL))
	}
	if c.Backend.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("backend.timeout_seconds must be positive"))
	}
	if c.Backend.RequestTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("backend.request_timeout_seconds must be positive"))
	}
	if c.UI.MessageTTLSeconds <= 0 {
		errs = append(errs, errors.New("ui.message_ttl_seconds must be positive"))
	}
	if c.UI.IndentWidth < 0 {
		errs = append(errs, errors.New("ui.indent_width must not be negative"))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "xroadfields.toml"
	}
	return filepath.Join(dir, "xroadfields", "config.toml")
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "xroadfields.log")
	}
	return filepath.Join(dir, "xroadfields", "xroadfields.log")
}
