// Package formatting renders capability listings and invocation results for
// the command line in table, JSON or YAML form.
package formatting

import (
	"fmt"
	"io"
	"os"

	"cmdbmcp/internal/capability"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// Formats lists the accepted values of --output.
var Formats = []OutputFormat{FormatTable, FormatJSON, FormatYAML}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Writer io.Writer // defaults to os.Stdout
	Color  bool      // Enable colored table output
}

func (o Options) writer() io.Writer {
	if o.Writer == nil {
		return os.Stdout
	}
	return o.Writer
}

// Formatter writes capability listings and results.
type Formatter interface {
	FormatCapabilities(descs []*capability.Descriptor) error
	FormatResult(data interface{}) error
}

// New creates the formatter for options.Format.
func New(options Options) (Formatter, error) {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}, nil
	case FormatYAML:
		return &YAMLFormatter{options: options}, nil
	case FormatTable, "":
		return &TableFormatter{options: options}, nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s' (expected one of %v)", options.Format, Formats)
	}
}

// CapabilitySummary is the serializable view of a descriptor.
type CapabilitySummary struct {
	Kind        string       `json:"kind" yaml:"kind"`
	Name        string       `json:"name" yaml:"name"`
	URI         string       `json:"uri,omitempty" yaml:"uri,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Remote      bool         `json:"remote" yaml:"remote"`
	Args        []ArgSummary `json:"args,omitempty" yaml:"args,omitempty"`
}

// ArgSummary describes one argument of a capability.
type ArgSummary struct {
	Name     string      `json:"name" yaml:"name"`
	Type     string      `json:"type" yaml:"type"`
	Required bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Default  interface{} `json:"default,omitempty" yaml:"default,omitempty"`
}

// Summarize converts descriptors into their serializable view.
func Summarize(descs []*capability.Descriptor) []CapabilitySummary {
	out := make([]CapabilitySummary, 0, len(descs))
	for _, d := range descs {
		summary := CapabilitySummary{
			Kind:        string(d.Kind),
			Name:        d.Name,
			URI:         d.URI,
			Description: d.Description,
			Remote:      d.Remote,
		}
		for _, a := range d.Args {
			argType := a.Type
			if argType == "" {
				argType = "string"
			}
			summary.Args = append(summary.Args, ArgSummary{
				Name:     a.Name,
				Type:     argType,
				Required: a.Required,
				Default:  a.Default,
			})
		}
		out = append(out, summary)
	}
	return out
}
