package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdbmcp/internal/api"
)

const citiesJSON = `{
  "default_city": "Lisbon",
  "cities": [
    {"name": "Lisbon", "country": "Portugal", "timezone": "Europe/Lisbon", "population_millions": 0.55, "notes": "Hilly"},
    {"name": "New York", "country": "USA", "timezone": "America/New_York", "population_millions": 8.3}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCities(t *testing.T) {
	idx, err := LoadCities(writeFile(t, "cities.json", citiesJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"Lisbon", "New York"}, idx.Names())
	assert.Equal(t, "Lisbon", idx.Default().Name())
	assert.Equal(t, 0.55, idx.Default()["population_millions"])
}

func TestLoadCities_YAML(t *testing.T) {
	idx, err := LoadCities(writeFile(t, "cities.yaml", `
default_city: Oslo
cities:
  - name: Oslo
    country: Norway
`))
	require.NoError(t, err)
	assert.Equal(t, "Norway", idx.Default().Field("country"))
}

func TestCityIndex_LookupIsCaseInsensitive(t *testing.T) {
	idx, err := LoadCities(writeFile(t, "cities.json", citiesJSON))
	require.NoError(t, err)

	canonical, err := idx.Lookup("New York")
	require.NoError(t, err)

	for _, key := range []string{"new york", "NEW YORK", "nEw YoRk", "  New   York "} {
		t.Run(key, func(t *testing.T) {
			got, err := idx.Lookup(key)
			require.NoError(t, err)
			assert.Equal(t, canonical, got)
		})
	}
}

func TestCityIndex_LookupMiss(t *testing.T) {
	idx, err := LoadCities(writeFile(t, "cities.json", citiesJSON))
	require.NoError(t, err)

	_, err = idx.Lookup("Atlantis")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, "city 'Atlantis' not found", err.Error())
}

func TestLoadCities_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"malformed", `{"cities": [`, "failed to parse"},
		{"nameless entry", `{"default_city": "A", "cities": [{"country": "X"}]}`, "has no name"},
		{"duplicate", `{"default_city": "A", "cities": [{"name": "A"}, {"name": "a"}]}`, "duplicate"},
		{"unknown default", `{"default_city": "B", "cities": [{"name": "A"}]}`, "not listed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCities(writeFile(t, "cities.json", tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := LoadCities(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read")
}
