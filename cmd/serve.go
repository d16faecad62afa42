package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cmdbmcp/internal/app"
)

var (
	// serveDebug forces debug logging regardless of logging.level.
	serveDebug bool

	// serveConfigPath is the directory holding config.yaml.
	serveConfigPath string

	// Transport overrides; empty or zero keeps config.yaml values.
	serveTransport string
	serveHost      string
	servePort      int
)

// serveCmd starts the MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the MCP server on the configured transport.

Transports:
  stdio            (default) JSON-RPC over stdin/stdout, for MCP hosts that spawn the server
  sse              Server-Sent Events on --host:--port
  streamable-http  Streamable HTTP on --host:--port, endpoint /mcp

Configuration:
  cmdbmcp loads config.yaml from --config-path (default ~/.config/cmdbmcp).
  A missing file means defaults. Environment variables override the file:
    CMDB_COOKIE        session cookie forwarded to the CMDB API
    CMDB_COOKIE_FILE   file holding the cookie; re-read when it changes
    CMDB_BASE_URL      CMDB API root
    CMDBMCP_LOG_LEVEL  debug, info, warn or error
    CMDBMCP_TRANSPORT  stdio, sse or streamable-http

  Logs always go to stderr. The server stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath := serveConfigPath
	if configPath == "" {
		configPath = defaultConfigPath()
	}

	cfg := app.NewConfig(serveDebug, configPath)
	cfg.Transport = serveTransport
	cfg.Host = serveHost
	cfg.Port = servePort

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Configuration directory containing config.yaml (default ~/.config/cmdbmcp)")
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "MCP transport: stdio, sse or streamable-http")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind for HTTP transports")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to bind for HTTP transports")
}
