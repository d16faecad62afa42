package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"cmdbmcp/pkg/logging"
)

const (
	SystemPromptFile    = "system_prompt.txt"
	ItineraryPromptFile = "itinerary_brief.tmpl"
)

const defaultItineraryTemplate = `You are a travel planning assistant. ` +
	`Create a short itinerary overview for {{ .City }}, ` +
	`highlighting key neighborhoods, signature cuisine, ` +
	`and one hidden gem locals love.`

// Prompts holds the prompt texts loaded at startup.
type Prompts struct {
	system    string
	itinerary *template.Template
}

// ItineraryData is the data passed to the itinerary template.
type ItineraryData struct {
	City string
}

// LoadPrompts reads prompt texts from dir. system_prompt.txt is required;
// itinerary_brief.tmpl is optional and falls back to a built-in template.
func LoadPrompts(dir string) (*Prompts, error) {
	systemPath := filepath.Join(dir, SystemPromptFile)
	data, err := os.ReadFile(systemPath)
	if err != nil {
		return nil, fmt.Errorf("missing prompt file %s: %w", systemPath, err)
	}

	itinerarySource := defaultItineraryTemplate
	tmplPath := filepath.Join(dir, ItineraryPromptFile)
	if custom, err := os.ReadFile(tmplPath); err == nil {
		itinerarySource = strings.TrimSpace(string(custom))
		logging.Debug("Content", "Using itinerary template from %s", tmplPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", tmplPath, err)
	}

	return NewPrompts(string(data), itinerarySource)
}

// NewPrompts builds Prompts from in-memory texts.
func NewPrompts(system, itinerarySource string) (*Prompts, error) {
	tmpl, err := template.New(ItineraryPromptFile).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(itinerarySource)
	if err != nil {
		return nil, fmt.Errorf("invalid itinerary template: %w", err)
	}

	return &Prompts{
		system:    strings.TrimSpace(system),
		itinerary: tmpl,
	}, nil
}

// System returns the trimmed operating-context prompt.
func (p *Prompts) System() string {
	return p.system
}

// Itinerary renders the itinerary brief for city.
func (p *Prompts) Itinerary(city string) (string, error) {
	var buf bytes.Buffer
	if err := p.itinerary.Execute(&buf, ItineraryData{City: city}); err != nil {
		return "", fmt.Errorf("failed to render itinerary prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
