// Package app provides application bootstrap and lifecycle management for cmdbmcp.
//
// # Architecture Overview
//
// The app package sits between the cobra commands and the domain packages:
//
//  1. **Configuration (`config.go`)**: runtime settings from command line flags
//  2. **Bootstrap (`bootstrap.go`)**: logging setup, config loading, flag overrides
//  3. **Services (`services.go`)**: content loading, capability registration, MCP server
//  4. **Modes (`modes.go`)**: the serve lifecycle under an errgroup
//
// # Bootstrap Sequence
//
//  1. Logging starts on stderr at info (debug with --debug)
//  2. config.yaml is loaded from --config-path, then environment overrides apply
//  3. Flag overrides (--transport, --host, --port) are applied and re-validated
//  4. Logging is reconfigured from logging.level and logging.file
//  5. Cities and prompts are loaded; a missing file aborts startup
//  6. Local and CMDB capabilities are registered and the registry is sealed
//  7. The MCP server binds every capability
//
// # Serve Lifecycle
//
// Run starts the MCP transport and, when cmdb.cookieFile is set, the cookie
// file watcher. SIGINT and SIGTERM cancel both. When the transport ends on
// its own (stdio EOF) the watcher is stopped too.
//
// # Logging
//
// Logs always go to stderr because stdout carries stdio protocol frames.
// logging.file adds a copy on disk.
package app
