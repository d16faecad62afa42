package content

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"cmdbmcp/internal/api"
	"cmdbmcp/pkg/logging"
)

// City is a single city record. Fields beyond "name" are passed through as loaded.
type City map[string]interface{}

// Name returns the canonical city name.
func (c City) Name() string {
	s, _ := c["name"].(string)
	return s
}

// Field returns a string field, or "" when absent or not a string.
func (c City) Field(key string) string {
	s, _ := c[key].(string)
	return s
}

type citiesDocument struct {
	DefaultCity string `json:"default_city"`
	Cities      []City `json:"cities"`
}

// CityIndex is an immutable, case-insensitive index of city records.
type CityIndex struct {
	defaultKey string
	byKey      map[string]City
	names      []string
}

// LoadCities builds the index from a JSON or YAML document of the form
// {"default_city": "...", "cities": [{"name": "..."}]}.
// A missing file, a city without a name, a duplicate name or an unknown
// default are all errors.
func LoadCities(path string) (*CityIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read city content: %w", err)
	}

	var doc citiesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse city content %s: %w", path, err)
	}

	idx := &CityIndex{byKey: make(map[string]City, len(doc.Cities))}
	for i, city := range doc.Cities {
		name := strings.TrimSpace(city.Name())
		if name == "" {
			return nil, fmt.Errorf("city content %s: entry %d has no name", path, i)
		}
		key := normalizeKey(name)
		if _, exists := idx.byKey[key]; exists {
			return nil, fmt.Errorf("city content %s: duplicate city '%s'", path, name)
		}
		idx.byKey[key] = city
		idx.names = append(idx.names, name)
	}
	sort.Strings(idx.names)

	idx.defaultKey = normalizeKey(doc.DefaultCity)
	if _, ok := idx.byKey[idx.defaultKey]; !ok {
		return nil, fmt.Errorf("city content %s: default_city '%s' is not listed", path, doc.DefaultCity)
	}

	logging.Info("Content", "Loaded %d cities from %s (default: %s)", len(idx.byKey), path, doc.DefaultCity)
	return idx, nil
}

// Lookup returns the city whose name matches key ignoring case and
// surrounding or repeated whitespace.
func (idx *CityIndex) Lookup(key string) (City, error) {
	if city, ok := idx.byKey[normalizeKey(key)]; ok {
		return city, nil
	}
	return nil, api.NewNotFoundError("city", key)
}

// Default returns the record named by default_city.
func (idx *CityIndex) Default() City {
	return idx.byKey[idx.defaultKey]
}

// Names returns all canonical city names, sorted.
func (idx *CityIndex) Names() []string {
	return append([]string(nil), idx.names...)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
