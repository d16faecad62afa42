package app

import (
	"cmdbmcp/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of logging.level.
	Debug bool

	// Quiet lowers console logging to warnings. Used by one-shot commands.
	Quiet bool

	// ConfigPath is the directory holding config.yaml.
	ConfigPath string

	// Flag overrides; zero values leave the loaded configuration untouched.
	Transport string
	Host      string
	Port      int

	// Loaded configuration. When pre-populated, loading is skipped.
	Config *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}

// applyOverrides copies non-zero flag values onto the loaded configuration.
func (c *Config) applyOverrides() {
	if c.Transport != "" {
		c.Config.Server.Transport = c.Transport
	}
	if c.Host != "" {
		c.Config.Server.Host = c.Host
	}
	if c.Port != 0 {
		c.Config.Server.Port = c.Port
	}
}
