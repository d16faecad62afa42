// Package logging provides a structured logging system for cmdbmcp with unified
// log handling and flexible output formatting.
//
// This package implements a logging system built on Go's standard slog package,
// providing consistent logging behavior with structured output and level filtering.
//
// # Architecture
//
// ## Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// ## Structured Logging
// All log entries include:
//   - Timestamp
//   - Log level (Debug, Info, Warn, Error)
//   - Subsystem identifier for categorization
//   - Message content with optional formatting
//   - Optional error information
//
// # Usage Examples
//
//	import "cmdbmcp/pkg/logging"
//
//	// Initialize with Info level logging to stderr
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Config", "Loaded configuration from %s", configPath)
//	logging.Warn("TokenWatcher", "Cookie file is empty")
//	logging.Error("Upstream", err, "Request to %s failed", url)
//
// # Stdio Transport
//
// When the MCP server runs over stdio, stdout carries protocol frames. Logs
// must therefore go to stderr (optionally teed into a log file).
//
// # Subsystem Organization
//
//   - **Bootstrap**: Application initialization and startup
//   - **Config**: Configuration loading and validation
//   - **TokenWatcher**: Out-of-band session cookie refresh
//   - **Registry**: Capability registration and dispatch
//   - **Upstream**: CMDB/Zeus HTTP calls
//   - **Server**: MCP transport lifecycle
//
// # Secrets
//
// Session cookies must never be passed to these functions. Use
// config.RedactedToken, which formats as "[REDACTED]".
package logging
