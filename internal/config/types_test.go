package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCMDBConfig_DerivedURLs(t *testing.T) {
	cfg := CMDBConfig{BaseURL: "https://zeus.example.com/cmdb/api/v1"}

	assert.Equal(t, "https://zeus.example.com/cmdb/api/v1/product/list", cfg.ProductLinesURL())
	assert.Equal(t, "https://zeus.example.com/cmdb/api/v1/deploy/children", cfg.ListChildrenURL())
	assert.Equal(t, "https://zeus.example.com/cmdb/api/v1/deploy/domain", cfg.DomainCreateURL())
	assert.Equal(t, "https://zeus.example.com/zeus/api/v1/user/list", cfg.UserDirectoryURL())
}

func TestCMDBConfig_SiblingURL(t *testing.T) {
	tests := []struct {
		name     string
		config   CMDBConfig
		family   string
		expected string
	}{
		{
			name:     "default family segment is replaced",
			config:   CMDBConfig{BaseURL: "https://h/cmdb/api/v1"},
			family:   "zeus",
			expected: "https://h/zeus/api/v1",
		},
		{
			name:     "trailing slash is tolerated",
			config:   CMDBConfig{BaseURL: "https://h/cmdb/api/v1/"},
			family:   "zeus",
			expected: "https://h/zeus/api/v1",
		},
		{
			name:     "segment at end of path",
			config:   CMDBConfig{BaseURL: "https://h/api/cmdb"},
			family:   "zeus",
			expected: "https://h/api/zeus",
		},
		{
			name:     "only the first occurrence is replaced",
			config:   CMDBConfig{BaseURL: "https://h/cmdb/cmdb/v1"},
			family:   "zeus",
			expected: "https://h/zeus/cmdb/v1",
		},
		{
			name:     "custom family",
			config:   CMDBConfig{BaseURL: "https://h/inventory/v2", Family: "inventory"},
			family:   "zeus",
			expected: "https://h/zeus/v2",
		},
		{
			name:     "no segment leaves URL unchanged",
			config:   CMDBConfig{BaseURL: "https://h/other/v1"},
			family:   "zeus",
			expected: "https://h/other/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.SiblingURL(tt.family))
		})
	}
}

func TestCMDBConfig_EndpointOverrides(t *testing.T) {
	cfg := CMDBConfig{
		BaseURL: "https://h/cmdb/api/v1",
		Endpoints: EndpointOverrides{
			UserDirectory: "https://users.internal/list",
			DomainCreate:  "https://h/cmdb/api/v2/deploy/domain",
		},
	}

	assert.Equal(t, "https://users.internal/list", cfg.UserDirectoryURL())
	assert.Equal(t, "https://h/cmdb/api/v2/deploy/domain", cfg.DomainCreateURL())
	assert.Equal(t, "https://h/cmdb/api/v1/product/list", cfg.ProductLinesURL())
}

func TestContentConfig_CitiesPath(t *testing.T) {
	assert.Equal(t, "resources/cities.json", ContentConfig{ResourceDir: "resources", CitiesFile: "cities.json"}.CitiesPath())
	assert.Equal(t, "/abs/cities.json", ContentConfig{ResourceDir: "resources", CitiesFile: "/abs/cities.json"}.CitiesPath())
	assert.Equal(t, "cities.json", ContentConfig{CitiesFile: "cities.json"}.CitiesPath())
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:8090", ServerConfig{Host: "localhost", Port: 8090}.Addr())
}

func TestConfig_TokenLazyInit(t *testing.T) {
	var cfg Config
	assert.NotNil(t, cfg.Token())
	assert.True(t, cfg.Token().Load().IsEmpty())
	assert.Same(t, cfg.Token(), cfg.Token())
}
