package demo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/capability"
	"cmdbmcp/internal/content"
)

const citiesJSON = `{
  "default_city": "Lisbon",
  "cities": [
    {"name": "Lisbon", "country": "Portugal", "timezone": "Europe/Lisbon", "population_millions": 0.55, "notes": "Hilly"},
    {"name": "New York", "country": "USA", "timezone": "America/New_York", "population_millions": 8.3},
    {"name": "Trinidad & Tobago", "country": "Trinidad and Tobago", "timezone": "America/Port_of_Spain", "population_millions": 1.4}
  ]
}`

func newRegistry(t *testing.T) *capability.Registry {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cities.json")
	require.NoError(t, os.WriteFile(path, []byte(citiesJSON), 0644))
	cities, err := content.LoadCities(path)
	require.NoError(t, err)

	prompts, err := content.NewPrompts("  You operate CMDB tooling.\n", "Plan {{ .City }}.")
	require.NoError(t, err)

	reg := capability.NewRegistry(nil)
	require.NoError(t, NewProvider(reg, cities, prompts).Register())
	reg.Seal()
	return reg
}

func callTool(t *testing.T, reg *capability.Registry, name string, args map[string]interface{}) (interface{}, error) {
	t.Helper()
	return reg.Dispatch(context.Background(), api.KindTool, name, args, nil)
}

func TestEcho(t *testing.T) {
	reg := newRegistry(t)

	out, err := callTool(t, reg, "echo", map[string]interface{}{"message": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = callTool(t, reg, "echo", nil)
	assert.True(t, api.IsValidation(err))
}

func TestRepeat(t *testing.T) {
	reg := newRegistry(t)

	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
		invalid  bool
	}{
		{name: "default times", args: map[string]interface{}{"message": "hi"}, expected: "hi hi"},
		{name: "three times", args: map[string]interface{}{"message": "a b", "times": float64(3)}, expected: "a b a b a b"},
		{name: "once", args: map[string]interface{}{"message": "x", "times": 1}, expected: "x"},
		{name: "zero", args: map[string]interface{}{"message": "x", "times": 0}, invalid: true},
		{name: "negative", args: map[string]interface{}{"message": "x", "times": -4}, invalid: true},
		{name: "fractional", args: map[string]interface{}{"message": "x", "times": 1.5}, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := callTool(t, reg, "repeat", tt.args)
			if tt.invalid {
				require.Error(t, err)
				assert.Equal(t, api.KindValidation, api.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestRepeat_HandlerRejectsZeroWithoutSchema(t *testing.T) {
	p := &Provider{}
	_, err := p.repeat(context.Background(), &capability.Invocation{
		Args:     capability.Args{"message": "x", "times": 0},
		Notifier: capability.NopNotifier{},
	})
	assert.True(t, api.IsValidation(err))
}

func TestCityInsights(t *testing.T) {
	reg := newRegistry(t)

	out, err := callTool(t, reg, "city_insights", map[string]interface{}{"city": "new york"})
	require.NoError(t, err)
	assert.Equal(t, CityInsight{
		Summary:            "New York in USA (America/New_York)",
		PopulationMillions: 8.3,
		Notes:              "",
	}, out)

	_, err = callTool(t, reg, "city_insights", map[string]interface{}{"city": "Atlantis"})
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestCityInsights_ReservedCharacters(t *testing.T) {
	reg := newRegistry(t)

	out, err := callTool(t, reg, "city_insights", map[string]interface{}{"city": "trinidad & tobago"})
	require.NoError(t, err)
	assert.Equal(t, "Trinidad & Tobago in Trinidad and Tobago (America/Port_of_Spain)", out.(CityInsight).Summary)

	for _, missing := range []string{"Nowhere=1", "a+b;c", "x/y"} {
		t.Run(missing, func(t *testing.T) {
			_, err := callTool(t, reg, "city_insights", map[string]interface{}{"city": missing})
			require.Error(t, err)
			assert.Equal(t, api.KindNotFound, api.KindOf(err))

			var notFound *api.NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, missing, notFound.Key)
		})
	}
}

func TestDefaultCity(t *testing.T) {
	reg := newRegistry(t)

	out, err := callTool(t, reg, "default_city", nil)
	require.NoError(t, err)
	city, ok := out.(content.City)
	require.True(t, ok)
	assert.Equal(t, "Lisbon", city.Name())
}

func TestCityResources(t *testing.T) {
	reg := newRegistry(t)

	out, err := reg.ReadResource(context.Background(), "cities://LISBON/profile", nil)
	require.NoError(t, err)
	assert.Equal(t, "Portugal", out.(content.City).Field("country"))

	uri, err := reg.ExpandURI(cityProfileResource, map[string]string{"city": "New  York"})
	require.NoError(t, err)
	out, err = reg.ReadResource(context.Background(), uri, nil)
	require.NoError(t, err)
	assert.Equal(t, "New York", out.(content.City).Name())

	out, err = reg.ReadResource(context.Background(), DefaultCityURI, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", out.(content.City).Name())
}

func TestPrompts(t *testing.T) {
	reg := newRegistry(t)

	out, err := reg.Dispatch(context.Background(), api.KindPrompt, "operating_context", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, api.PromptResult{
		Description: operatingContextDescription,
		Messages:    []api.PromptMessage{{Role: "user", Text: "You operate CMDB tooling."}},
	}, out)

	out, err = reg.Dispatch(context.Background(), api.KindPrompt, "itinerary_brief", map[string]interface{}{"city": "Oslo"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Plan Oslo.", out.(api.PromptResult).Messages[0].Text)

	_, err = reg.Dispatch(context.Background(), api.KindPrompt, "itinerary_brief", nil, nil)
	assert.True(t, api.IsValidation(err))
}

func TestPromptRunner(t *testing.T) {
	reg := newRegistry(t)

	out, err := callTool(t, reg, "prompt_runner", map[string]interface{}{"city": "Kyoto"})
	require.NoError(t, err)
	assert.Equal(t, RenderedPrompt{
		Description: itineraryBriefDescription,
		Messages: []RenderedMessage{
			{Role: "user", Content: TextContent{Type: "text", Text: "Plan Kyoto."}},
		},
	}, out)
}

func TestDescriptors_AllLocal(t *testing.T) {
	reg := newRegistry(t)

	names := make([]string, 0)
	for _, d := range reg.List("") {
		assert.False(t, d.Remote, d.Name)
		names = append(names, string(d.Kind)+":"+d.Name)
	}
	assert.Equal(t, strings.Join([]string{
		"tool:echo", "tool:repeat", "tool:city_insights", "tool:default_city", "tool:prompt_runner",
		"resource:default_city_profile", "resource:city_profile",
		"prompt:operating_context", "prompt:itinerary_brief",
	}, ","), strings.Join(names, ","))
}
