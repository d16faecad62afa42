package config

const (
	// DefaultCMDBBaseURL is used when neither the config file nor CMDB_BASE_URL sets one.
	DefaultCMDBBaseURL = "https://zeus.example.com/cmdb/api/v1"

	// DefaultCMDBFamily is the API family segment expected in the CMDB base URL.
	DefaultCMDBFamily = "cmdb"

	// ZeusFamily is the API family hosting the user directory.
	ZeusFamily = "zeus"

	// DefaultServerName is the name advertised to MCP clients.
	DefaultServerName = "cmdbmcp"

	DefaultHost = "localhost"
	DefaultPort = 8090
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name:      DefaultServerName,
			Transport: MCPTransportStdio,
			Host:      DefaultHost,
			Port:      DefaultPort,
		},
		CMDB: CMDBConfig{
			BaseURL: DefaultCMDBBaseURL,
			Family:  DefaultCMDBFamily,
		},
		Content: ContentConfig{
			ResourceDir: "resources",
			PromptDir:   "prompts",
			CitiesFile:  "cities.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
