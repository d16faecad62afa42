package app

import (
	"fmt"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/capability"
	"cmdbmcp/internal/cmdb"
	"cmdbmcp/internal/config"
	"cmdbmcp/internal/content"
	"cmdbmcp/internal/demo"
	"cmdbmcp/internal/server"
	"cmdbmcp/internal/upstream"
	"cmdbmcp/pkg/logging"
)

// Services holds the long-lived components of a running application.
type Services struct {
	Config   *config.Config
	Registry *capability.Registry
	Server   *server.Server

	// TokenWatcher is nil unless cmdb.cookieFile is configured.
	TokenWatcher *config.TokenWatcher
}

// InitializeServices builds the registry and the MCP server from cfg.Config.
func InitializeServices(cfg *Config, opts ...server.Option) (*Services, error) {
	c := cfg.Config

	reg, err := BuildRegistry(c)
	if err != nil {
		return nil, err
	}

	srv, err := server.New(c.Server, reg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}

	services := &Services{
		Config:   c,
		Registry: reg,
		Server:   srv,
	}
	if c.CMDB.CookieFile != "" {
		services.TokenWatcher = config.NewTokenWatcher(c.CMDB.CookieFile, c.Token())
	}
	return services, nil
}

// BuildRegistry loads static content and registers every capability.
// The returned registry is sealed.
func BuildRegistry(c *config.Config) (*capability.Registry, error) {
	cities, err := content.LoadCities(c.Content.CitiesPath())
	if err != nil {
		return nil, err
	}
	prompts, err := content.LoadPrompts(c.Content.PromptDir)
	if err != nil {
		return nil, err
	}

	reg := capability.NewRegistry(c.Token())

	if err := demo.NewProvider(reg, cities, prompts).Register(); err != nil {
		return nil, fmt.Errorf("failed to register local capabilities: %w", err)
	}
	if err := cmdb.NewProvider(upstream.NewClient(), c.CMDB).Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register CMDB capabilities: %w", err)
	}
	reg.Seal()

	logging.Info("Bootstrap", "Registered %d tools, %d resources and %d prompts",
		len(reg.List(api.KindTool)), len(reg.List(api.KindResource)), len(reg.List(api.KindPrompt)))
	return reg, nil
}
