package config

import (
	"net"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the top-level configuration structure for cmdbmcp.
//
// A Config is built once at startup and is treated as read-only afterwards.
// The only mutable piece is the CMDB session cookie, which lives in the
// TokenCell returned by Token and may be refreshed out-of-band.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CMDB    CMDBConfig    `yaml:"cmdb"`
	Content ContentConfig `yaml:"content"`
	Logging LoggingConfig `yaml:"logging"`

	token *TokenCell
}

// Transports supported by the MCP server.
const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// ServerConfig defines how the MCP server identifies itself and which transport it serves.
type ServerConfig struct {
	Name         string `yaml:"name,omitempty"`
	Version      string `yaml:"version,omitempty"`
	Instructions string `yaml:"instructions,omitempty"`
	Transport    string `yaml:"transport,omitempty"` // stdio (default), sse, streamable-http
	Host         string `yaml:"host,omitempty"`      // Host to bind to for HTTP transports
	Port         int    `yaml:"port,omitempty"`      // Port for HTTP transports
}

// CMDBConfig points at the CMDB/Zeus REST API.
type CMDBConfig struct {
	// BaseURL is the CMDB API root, e.g. https://zeus.example.com/cmdb/api/v1
	BaseURL string `yaml:"baseURL,omitempty"`

	// Family is the path segment in BaseURL that names the CMDB API family.
	// Sibling API families on the same host are reached by replacing it.
	Family string `yaml:"family,omitempty"`

	// Cookie is the pre-obtained session cookie forwarded upstream.
	// Prefer CMDB_COOKIE or CookieFile over storing it in the config file.
	Cookie string `yaml:"cookie,omitempty"`

	// CookieFile, when set, is the authoritative cookie source. It is
	// re-read whenever the file changes.
	CookieFile string `yaml:"cookieFile,omitempty"`

	// Endpoints allows overriding any derived URL.
	Endpoints EndpointOverrides `yaml:"endpoints,omitempty"`
}

// EndpointOverrides replace the URLs normally derived from CMDBConfig.BaseURL.
type EndpointOverrides struct {
	ProductLines  string `yaml:"productLines,omitempty"`
	UserDirectory string `yaml:"userDirectory,omitempty"`
	ListChildren  string `yaml:"listChildren,omitempty"`
	DomainCreate  string `yaml:"domainCreate,omitempty"`
}

// ContentConfig locates the static content served without network access.
type ContentConfig struct {
	ResourceDir string `yaml:"resourceDir,omitempty"`
	PromptDir   string `yaml:"promptDir,omitempty"`
	CitiesFile  string `yaml:"citiesFile,omitempty"` // relative to ResourceDir unless absolute
}

// LoggingConfig controls log level and an optional log file.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Token returns the cell holding the CMDB session cookie.
func (c *Config) Token() *TokenCell {
	if c.token == nil {
		c.token = NewTokenCell("")
	}
	return c.token
}

// familyOrDefault returns the configured API family, "cmdb" when unset.
func (c CMDBConfig) familyOrDefault() string {
	if f := strings.Trim(c.Family, "/"); f != "" {
		return f
	}
	return DefaultCMDBFamily
}

// SiblingURL derives the root URL of another API family on the CMDB host by
// replacing the first "/<Family>/" segment of BaseURL with "/<family>/".
// If BaseURL does not contain the segment, it is returned unchanged.
func (c CMDBConfig) SiblingURL(family string) string {
	base := strings.TrimRight(c.BaseURL, "/") + "/"
	from := "/" + c.familyOrDefault() + "/"
	to := "/" + strings.Trim(family, "/") + "/"
	return strings.TrimRight(strings.Replace(base, from, to, 1), "/")
}

func (c CMDBConfig) join(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func override(explicit, derived string) string {
	if explicit != "" {
		return explicit
	}
	return derived
}

// ProductLinesURL returns the product line listing endpoint.
func (c CMDBConfig) ProductLinesURL() string {
	return override(c.Endpoints.ProductLines, c.join("/product/list"))
}

// ListChildrenURL returns the deployment children listing endpoint used for domains.
func (c CMDBConfig) ListChildrenURL() string {
	return override(c.Endpoints.ListChildren, c.join("/deploy/children"))
}

// DomainCreateURL returns the domain registration endpoint.
func (c CMDBConfig) DomainCreateURL() string {
	return override(c.Endpoints.DomainCreate, c.join("/deploy/domain"))
}

// UserDirectoryURL returns the Zeus user listing endpoint, which lives on a
// sibling API family of the CMDB base URL.
func (c CMDBConfig) UserDirectoryURL() string {
	return override(c.Endpoints.UserDirectory, c.SiblingURL(ZeusFamily)+"/user/list")
}

// CitiesPath resolves the city profile file against ResourceDir.
func (c ContentConfig) CitiesPath() string {
	if filepath.IsAbs(c.CitiesFile) || c.ResourceDir == "" {
		return c.CitiesFile
	}
	return filepath.Join(c.ResourceDir, c.CitiesFile)
}

// Addr returns the host:port the HTTP transports listen on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
