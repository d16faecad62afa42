package api

// Kind identifies which MCP primitive a capability is exposed as.
type Kind string

const (
	KindTool     Kind = "tool"
	KindResource Kind = "resource"
	KindPrompt   Kind = "prompt"
)

// Kinds lists every capability kind in registration order.
var Kinds = []Kind{KindTool, KindResource, KindPrompt}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindTool, KindResource, KindPrompt:
		return true
	default:
		return false
	}
}

// Argument types understood by the binder and advertised in input schemas.
const (
	ArgTypeString  = "string"
	ArgTypeInteger = "integer"
	ArgTypeNumber  = "number"
	ArgTypeBoolean = "boolean"
	ArgTypeObject  = "object"
)

// ArgMetadata describes a single capability argument.
type ArgMetadata struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean", "object"
	Required    bool
	Description string
	Default     interface{}

	// Minimum is an inclusive lower bound for numeric arguments.
	Minimum *float64

	// Enum restricts the argument to a fixed set of values.
	Enum []interface{}
}

// Min returns a pointer to v, for use in ArgMetadata.Minimum.
func Min(v float64) *float64 {
	return &v
}

// PromptMessage is a single rendered prompt message.
type PromptMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// PromptResult is what prompt capabilities return.
type PromptResult struct {
	Description string          `json:"description"`
	Messages    []PromptMessage `json:"messages"`
}
