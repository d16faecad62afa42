package demo

import (
	"context"
	"fmt"
	"strings"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/capability"
	"cmdbmcp/internal/content"
)

const (
	CityProfileURI = "cities://{city}/profile"
	DefaultCityURI = "cities://default"

	cityProfileResource = "city_profile"

	operatingContextDescription = "Base system prompt used by downstream assistants."
	itineraryBriefDescription   = "Prompt template that requests a structured travel brief."
)

// Provider registers the local capabilities.
type Provider struct {
	reg     *capability.Registry
	cities  *content.CityIndex
	prompts *content.Prompts
}

// NewProvider creates a provider. Capabilities that compose other
// capabilities dispatch through reg.
func NewProvider(reg *capability.Registry, cities *content.CityIndex, prompts *content.Prompts) *Provider {
	return &Provider{reg: reg, cities: cities, prompts: prompts}
}

// Register adds every local capability to the registry.
func (p *Provider) Register() error {
	for _, d := range p.Descriptors() {
		if err := p.reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Descriptors returns the local capability declarations.
func (p *Provider) Descriptors() []capability.Descriptor {
	return []capability.Descriptor{
		{
			Kind:        api.KindTool,
			Name:        "echo",
			Description: "Return the supplied message verbatim.",
			Args: []api.ArgMetadata{
				{Name: "message", Type: api.ArgTypeString, Required: true, Description: "Message to echo"},
			},
			Handler: p.echo,
		},
		{
			Kind:        api.KindTool,
			Name:        "repeat",
			Description: "Repeat a message multiple times, separated by single spaces.",
			Args: []api.ArgMetadata{
				{Name: "message", Type: api.ArgTypeString, Required: true, Description: "Message to repeat"},
				{Name: "times", Type: api.ArgTypeInteger, Default: 2, Minimum: api.Min(1), Description: "Number of repetitions"},
			},
			Handler: p.repeat,
		},
		{
			Kind:        api.KindTool,
			Name:        "city_insights",
			Description: "Return a structured summary for a city: {summary, population_millions, notes}.",
			Args: []api.ArgMetadata{
				{Name: "city", Type: api.ArgTypeString, Required: true, Description: "City name, case-insensitive"},
			},
			Handler: p.cityInsights,
		},
		{
			Kind:        api.KindTool,
			Name:        "default_city",
			Description: "Return the default city profile.",
			Handler:     p.defaultCity,
		},
		{
			Kind:        api.KindTool,
			Name:        "prompt_runner",
			Description: "Render the itinerary prompt for a city and return the raw messages.",
			Args: []api.ArgMetadata{
				{Name: "city", Type: api.ArgTypeString, Required: true, Description: "City to plan for"},
			},
			Handler: p.promptRunner,
		},
		{
			Kind:        api.KindResource,
			Name:        "default_city_profile",
			URI:         DefaultCityURI,
			MIMEType:    "application/json",
			Description: "Profile of the configured default city.",
			Handler:     p.defaultCityProfile,
		},
		{
			Kind:        api.KindResource,
			Name:        cityProfileResource,
			URI:         CityProfileURI,
			MIMEType:    "application/json",
			Description: "Profile of a single city. Lookup ignores case and extra whitespace.",
			Args: []api.ArgMetadata{
				{Name: "city", Type: api.ArgTypeString, Required: true, Description: "City name"},
			},
			Handler: p.cityProfile,
		},
		{
			Kind:        api.KindPrompt,
			Name:        "operating_context",
			Description: operatingContextDescription,
			Handler:     p.operatingContext,
		},
		{
			Kind:        api.KindPrompt,
			Name:        "itinerary_brief",
			Description: itineraryBriefDescription,
			Args: []api.ArgMetadata{
				{Name: "city", Type: api.ArgTypeString, Required: true, Description: "City to plan for"},
			},
			Handler: p.itineraryBrief,
		},
	}
}

func (p *Provider) echo(_ context.Context, inv *capability.Invocation) (interface{}, error) {
	message := inv.Args.String("message")
	inv.Notifier.Info("Echo request received: %s", message)
	return message, nil
}

func (p *Provider) repeat(_ context.Context, inv *capability.Invocation) (interface{}, error) {
	message := inv.Args.String("message")
	times := inv.Args.Int("times")
	if times < 1 {
		return nil, api.NewValidationError("times", times, "times must be >= 1")
	}
	inv.Notifier.Debug("Repeating '%s' %d times", message, times)

	parts := make([]string, times)
	for i := range parts {
		parts[i] = message
	}
	return strings.Join(parts, " "), nil
}

// CityInsight is the result of the city_insights tool.
type CityInsight struct {
	Summary            string      `json:"summary"`
	PopulationMillions interface{} `json:"population_millions"`
	Notes              string      `json:"notes"`
}

func (p *Provider) cityInsights(ctx context.Context, inv *capability.Invocation) (interface{}, error) {
	city := inv.Args.String("city")
	inv.Notifier.Info("Building insight for %s", city)

	uri, err := p.reg.ExpandURI(cityProfileResource, map[string]string{"city": city})
	if err != nil {
		return nil, err
	}
	out, err := p.reg.ReadResource(ctx, uri, inv.Notifier)
	if err != nil {
		return nil, err
	}
	profile, ok := out.(content.City)
	if !ok {
		return nil, fmt.Errorf("city profile for '%s' has unexpected type %T", city, out)
	}

	return CityInsight{
		Summary:            fmt.Sprintf("%s in %s (%s)", profile.Name(), profile.Field("country"), profile.Field("timezone")),
		PopulationMillions: profile["population_millions"],
		Notes:              profile.Field("notes"),
	}, nil
}

func (p *Provider) defaultCity(ctx context.Context, inv *capability.Invocation) (interface{}, error) {
	inv.Notifier.Debug("Loading default city profile from resources")
	return p.reg.ReadResource(ctx, DefaultCityURI, inv.Notifier)
}

func (p *Provider) defaultCityProfile(context.Context, *capability.Invocation) (interface{}, error) {
	return p.cities.Default(), nil
}

func (p *Provider) cityProfile(_ context.Context, inv *capability.Invocation) (interface{}, error) {
	return p.cities.Lookup(inv.Args.String("city"))
}

func (p *Provider) operatingContext(context.Context, *capability.Invocation) (interface{}, error) {
	return api.PromptResult{
		Description: operatingContextDescription,
		Messages:    []api.PromptMessage{{Role: "user", Text: p.prompts.System()}},
	}, nil
}

func (p *Provider) itineraryBrief(_ context.Context, inv *capability.Invocation) (interface{}, error) {
	text, err := p.prompts.Itinerary(inv.Args.String("city"))
	if err != nil {
		return nil, err
	}
	return api.PromptResult{
		Description: itineraryBriefDescription,
		Messages:    []api.PromptMessage{{Role: "user", Text: text}},
	}, nil
}

// RenderedPrompt is the result of prompt_runner. Messages use the MCP
// prompt message shape.
type RenderedPrompt struct {
	Description string            `json:"description"`
	Messages    []RenderedMessage `json:"messages"`
}

// RenderedMessage is a single prompt message with text content.
type RenderedMessage struct {
	Role    string      `json:"role"`
	Content TextContent `json:"content"`
}

// TextContent is an MCP text content block.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (p *Provider) promptRunner(ctx context.Context, inv *capability.Invocation) (interface{}, error) {
	city := inv.Args.String("city")
	inv.Notifier.Info("Rendering itinerary_brief prompt for %s", city)

	out, err := p.reg.Dispatch(ctx, api.KindPrompt, "itinerary_brief", map[string]interface{}{"city": city}, inv.Notifier)
	if err != nil {
		return nil, err
	}
	prompt, ok := out.(api.PromptResult)
	if !ok {
		return nil, fmt.Errorf("prompt itinerary_brief returned unexpected type %T", out)
	}

	rendered := RenderedPrompt{
		Description: prompt.Description,
		Messages:    make([]RenderedMessage, 0, len(prompt.Messages)),
	}
	for _, m := range prompt.Messages {
		rendered.Messages = append(rendered.Messages, RenderedMessage{
			Role:    m.Role,
			Content: TextContent{Type: "text", Text: m.Text},
		})
	}
	return rendered, nil
}
