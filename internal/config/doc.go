// Package config provides configuration management for cmdbmcp.
//
// Configuration is loaded from config.yaml in a single directory. The default
// directory is ~/.config/cmdbmcp and can be changed with --config-path. A
// missing file is not an error: GetDefaultConfig is used instead.
//
// # Precedence
//
//  1. Built-in defaults (GetDefaultConfig)
//  2. config.yaml
//  3. Environment variables (CMDB_COOKIE, CMDB_BASE_URL, CMDB_COOKIE_FILE,
//     CMDBMCP_LOG_LEVEL, CMDBMCP_TRANSPORT), optionally seeded from a .env file
//
// # Configuration Structure
//
//	server:
//	  transport: stdio              # stdio (default), sse, streamable-http
//	  host: localhost
//	  port: 8090
//	cmdb:
//	  baseURL: https://zeus.example.com/cmdb/api/v1
//	  family: cmdb                  # segment swapped to reach sibling APIs (zeus)
//	  cookieFile: /run/secrets/cmdb-cookie
//	  endpoints:
//	    userDirectory: ""           # optional explicit override
//	content:
//	  resourceDir: resources
//	  promptDir: prompts
//	  citiesFile: cities.json
//	logging:
//	  level: info
//	  file: ""
//
// # Session Cookie
//
// The CMDB session cookie is held in a TokenCell. When cmdb.cookieFile is set
// it is the authoritative source and a TokenWatcher refreshes the cell when
// the file changes. The cookie is wrapped in RedactedToken so it never shows
// up in logs or serialized config.
package config
