package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/config"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfiguration indicates a missing setting such as the CMDB session cookie.
	ExitCodeConfiguration = 2
	// ExitCodeUpstream indicates the CMDB API rejected the call or could not be reached.
	ExitCodeUpstream = 3
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cmdbmcp",
	Short: "MCP server exposing CMDB lookups, city profiles and prompts",
	Long: `cmdbmcp is a Model Context Protocol server. It exposes a small set of
local tools, resources and prompts backed by static content, plus tools
and resources that proxy the CMDB/Zeus REST API.

Network-backed capabilities need a CMDB session cookie, provided through
CMDB_COOKIE, CMDB_COOKIE_FILE, a .env file or cmdb.cookie in config.yaml.`,
	SilenceUsage: true,
}

// SetVersion sets the version reported by --version and the version command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute loads .env from the working directory and runs the root command.
// It exits the process with a non-zero code on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "cmdbmcp version %s\n" .Version}}`)

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCodeError)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps an error onto an exit code for scripting.
func getExitCode(err error) int {
	var remote *remoteError
	kind := api.KindOf(err)
	if errors.As(err, &remote) {
		kind = remote.Kind
	}

	switch kind {
	case api.KindConfiguration:
		return ExitCodeConfiguration
	case api.KindUpstreamHTTP, api.KindUpstreamTransport:
		return ExitCodeUpstream
	default:
		return ExitCodeError
	}
}

// defaultConfigPath is used when --config-path is empty.
func defaultConfigPath() string {
	return config.GetDefaultConfigPathOrPanic()
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
