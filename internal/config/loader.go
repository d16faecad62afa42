package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cmdbmcp/pkg/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/cmdbmcp"
	configFileName = "config.yaml"
)

// Environment variables that override the config file.
const (
	EnvCookie     = "CMDB_COOKIE"
	EnvBaseURL    = "CMDB_BASE_URL"
	EnvCookieFile = "CMDB_COOKIE_FILE"
	EnvLogLevel   = "CMDBMCP_LOG_LEVEL"
	EnvTransport  = "CMDBMCP_TRANSPORT"
)

// GetDefaultConfigPathOrPanic returns ~/.config/cmdbmcp.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment. Variables already set are left untouched and missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
		logging.Debug("ConfigLoader", "Loaded environment from %s", f)
	}
	return nil
}

// LoadConfig loads config.yaml from configPath, applies environment
// overrides and seeds the token cell.
func LoadConfig(configPath string) (Config, error) {
	config, err := loadFile(filepath.Join(configPath, configFileName))
	if err != nil {
		return Config{}, err
	}

	ApplyEnv(&config, os.LookupEnv)

	if err := config.Validate(); err != nil {
		return Config{}, &LoadError{
			FilePath:  filepath.Join(configPath, configFileName),
			ErrorType: ErrorTypeValidation,
			Message:   "invalid configuration",
			Err:       err,
		}
	}

	config.token = NewTokenCell(config.CMDB.Cookie)
	if config.CMDB.CookieFile != "" {
		if err := config.token.LoadFile(config.CMDB.CookieFile); err != nil {
			logging.Warn("ConfigLoader", "Cookie file %s not readable yet: %v", config.CMDB.CookieFile, err)
		}
	}
	if config.token.Load().IsEmpty() {
		logging.Warn("ConfigLoader", "No CMDB session cookie configured; network-backed capabilities will fail until %s or %s is set", EnvCookie, EnvCookieFile)
	}

	return config, nil
}

func loadFile(configFilePath string) (Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return Config{}, &LoadError{
			FilePath:  configFilePath,
			ErrorType: ErrorTypeIO,
			Message:   "cannot read file",
			Err:       err,
		}
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, &LoadError{
			FilePath:    configFilePath,
			ErrorType:   ErrorTypeParse,
			Message:     "malformed YAML",
			Err:         err,
			Suggestions: []string{"Check indentation and quoting", "Compare with config.example.yaml"},
		}
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// ApplyEnv overrides config values with environment variables found through lookup.
func ApplyEnv(config *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvCookie, &config.CMDB.Cookie)
	set(EnvBaseURL, &config.CMDB.BaseURL)
	set(EnvCookieFile, &config.CMDB.CookieFile)
	set(EnvLogLevel, &config.Logging.Level)
	set(EnvTransport, &config.Server.Transport)
}
