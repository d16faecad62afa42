package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cmdbmcp/internal/config"
	"cmdbmcp/pkg/logging"
)

// Application bootstraps and runs cmdbmcp.
//
// Example usage:
//
//	cfg := app.NewConfig(false, configPath)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	defer application.Close()
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
	logFile  io.Closer
}

// NewApplication loads configuration, sets up logging and initializes all
// services. It returns an error if any startup step fails; a missing content
// file is one of them.
func NewApplication(cfg *Config) (*Application, error) {
	logging.InitForCLI(consoleLevel(cfg, logging.LevelInfo), os.Stderr)

	if cfg.Config == nil {
		loaded, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration from %s: %w", cfg.ConfigPath, err)
		}
		cfg.Config = &loaded
		logging.Info("Bootstrap", "Loaded configuration from %s", cfg.ConfigPath)
	}

	cfg.applyOverrides()
	if err := cfg.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after flag overrides: %w", err)
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		closeQuietly(logFile)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
		logFile:  logFile,
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves MCP until ctx is cancelled, a termination signal arrives or the
// transport ends.
func (a *Application) Run(ctx context.Context) error {
	return runServer(ctx, a.services)
}

// Close releases the log file, if any, and points logging back at stderr.
func (a *Application) Close() error {
	if a.logFile == nil {
		return nil
	}
	logging.InitForCLI(consoleLevel(a.config, logging.LevelInfo), os.Stderr)
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// setupLogging applies logging.level and tees output into logging.file.
func setupLogging(cfg *Config) (io.Closer, error) {
	level, _ := logging.ParseLevel(cfg.Config.Logging.Level)
	level = consoleLevel(cfg, level)

	if cfg.Config.Logging.File == "" {
		logging.InitForCLI(level, os.Stderr)
		return nil, nil
	}

	path := cfg.Config.Logging.File
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	logging.InitForCLI(level, io.MultiWriter(os.Stderr, f))
	logging.Debug("Bootstrap", "Writing logs to %s", path)
	return f, nil
}

func consoleLevel(cfg *Config, level logging.LogLevel) logging.LogLevel {
	switch {
	case cfg.Debug:
		return logging.LevelDebug
	case cfg.Quiet:
		return logging.LevelWarn
	default:
		return level
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
