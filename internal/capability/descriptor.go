package capability

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/yosida95/uritemplate/v3"

	"cmdbmcp/internal/api"
	"cmdbmcp/internal/config"
)

// Handler executes a bound invocation and returns a JSON-serializable value.
type Handler func(ctx context.Context, inv *Invocation) (interface{}, error)

// Descriptor declares a capability: its identity, argument schema and handler.
type Descriptor struct {
	Kind        api.Kind
	Name        string
	URI         string // resources only; may be an RFC 6570 template
	Description string
	MIMEType    string
	Args        []api.ArgMetadata

	// Remote marks capabilities that call the CMDB API. They require a
	// session cookie before the handler is invoked.
	Remote bool

	Handler Handler

	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	template *uritemplate.Template
}

// Schema returns the input schema built from Args.
func (d *Descriptor) Schema() *jsonschema.Schema {
	return d.schema
}

// IsTemplate reports whether the resource URI contains template expressions.
func (d *Descriptor) IsTemplate() bool {
	return d.template != nil && len(d.template.Varnames()) > 0
}

func (d *Descriptor) key() string {
	return string(d.Kind) + "/" + d.Name
}

// prepare validates the descriptor and compiles its schema and URI template.
func (d *Descriptor) prepare() error {
	if !d.Kind.IsValid() {
		return fmt.Errorf("capability '%s': invalid kind '%s'", d.Name, d.Kind)
	}
	if d.Name == "" {
		return fmt.Errorf("%s capability has no name", d.Kind)
	}
	if d.Handler == nil {
		return fmt.Errorf("%s '%s' has no handler", d.Kind, d.Name)
	}

	seen := make(map[string]bool, len(d.Args))
	for _, arg := range d.Args {
		if arg.Name == "" {
			return fmt.Errorf("%s '%s' declares an unnamed argument", d.Kind, d.Name)
		}
		if seen[arg.Name] {
			return fmt.Errorf("%s '%s' declares argument '%s' twice", d.Kind, d.Name, arg.Name)
		}
		seen[arg.Name] = true
	}

	if d.Kind == api.KindResource {
		if d.URI == "" {
			return fmt.Errorf("resource '%s' has no URI", d.Name)
		}
		tmpl, err := uritemplate.New(d.URI)
		if err != nil {
			return fmt.Errorf("resource '%s': invalid URI template %q: %w", d.Name, d.URI, err)
		}
		for _, v := range tmpl.Varnames() {
			if !seen[v] {
				return fmt.Errorf("resource '%s': URI variable '%s' is not a declared argument", d.Name, v)
			}
		}
		d.template = tmpl
	}

	schema := BuildSchema(d.Args)
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return fmt.Errorf("%s '%s': invalid argument schema: %w", d.Kind, d.Name, err)
	}
	d.schema = schema
	d.resolved = resolved
	return nil
}

// Invocation is the per-call state handed to a Handler.
// It is created by Dispatch and discarded once the handler returns.
type Invocation struct {
	ID       string
	Kind     api.Kind
	Name     string
	Args     Args
	Notifier Notifier

	// Token is the session cookie read once for this invocation.
	// It is empty for local capabilities.
	Token config.RedactedToken
}

// Args holds bound, schema-validated arguments.
type Args map[string]interface{}

// String returns the named argument as a string, or "" when absent.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns the named argument as an int, or 0 when absent.
func (a Args) Int(name string) int {
	switch v := a[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns the named argument as a bool, or false when absent.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Has reports whether the argument is bound.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}
