package capability

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"cmdbmcp/internal/api"
)

// BuildSchema converts argument metadata into a JSON Schema object.
// The same schema is advertised to clients and used to validate bound arguments.
func BuildSchema(args []api.ArgMetadata) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(args)),
	}

	for _, arg := range args {
		prop := &jsonschema.Schema{
			Type:        arg.Type,
			Description: arg.Description,
			Minimum:     arg.Minimum,
			Enum:        arg.Enum,
		}
		if prop.Type == "" {
			prop.Type = api.ArgTypeString
		}
		if arg.Default != nil {
			if raw, err := json.Marshal(arg.Default); err == nil {
				prop.Default = raw
			}
		}
		schema.Properties[arg.Name] = prop

		if arg.Required {
			schema.Required = append(schema.Required, arg.Name)
		}
	}

	return schema
}

// SchemaJSON returns the marshaled input schema, for runtimes that take raw JSON.
func SchemaJSON(args []api.ArgMetadata) (json.RawMessage, error) {
	return json.Marshal(BuildSchema(args))
}
