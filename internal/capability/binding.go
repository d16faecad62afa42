package capability

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cmdbmcp/internal/api"
)

// bind maps raw inbound arguments onto the descriptor's metadata.
// Defaults are applied, required arguments enforced and string values coerced
// to integers or booleans, since resource and prompt arguments always arrive
// as strings. The result is then validated against the descriptor schema.
// Arguments not declared in the metadata are dropped.
func (d *Descriptor) bind(raw map[string]interface{}) (Args, error) {
	args := make(Args, len(d.Args))

	for _, meta := range d.Args {
		value, present := raw[meta.Name]
		if !present || value == nil {
			if meta.Default != nil {
				args[meta.Name] = meta.Default
				continue
			}
			if meta.Required {
				return nil, api.NewValidationError(meta.Name, nil, "is required")
			}
			continue
		}

		coerced, err := coerce(meta, value)
		if err != nil {
			return nil, err
		}
		if err := checkBounds(meta, coerced); err != nil {
			return nil, err
		}
		args[meta.Name] = coerced
	}

	if d.resolved != nil {
		if err := d.resolved.Validate(map[string]interface{}(args)); err != nil {
			return nil, api.NewValidationError("", args, "%s", validationMessage(err))
		}
	}

	return args, nil
}

func coerce(meta api.ArgMetadata, value interface{}) (interface{}, error) {
	switch meta.Type {
	case api.ArgTypeInteger:
		if f, ok := value.(float64); ok && !inIntRange(f) {
			return nil, api.NewValidationError(meta.Name, value, "%g is out of integer range", f)
		}
		if n, ok := toInt(value); ok {
			return n, nil
		}
		return nil, api.NewValidationError(meta.Name, value, "expected integer, got %s", describe(value))

	case api.ArgTypeNumber:
		if f, ok := toFloat(value); ok {
			return f, nil
		}
		return nil, api.NewValidationError(meta.Name, value, "expected number, got %s", describe(value))

	case api.ArgTypeBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b, nil
			}
		}
		return nil, api.NewValidationError(meta.Name, value, "expected boolean, got %s", describe(value))

	case api.ArgTypeObject:
		if m, ok := value.(map[string]interface{}); ok {
			return m, nil
		}
		return nil, api.NewValidationError(meta.Name, value, "expected object, got %s", describe(value))

	default:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, api.NewValidationError(meta.Name, value, "expected string, got %s", describe(value))
	}
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) && inIntRange(v) {
			return int(v), true
		}
	case json.Number:
		if i, err := v.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// inIntRange reports whether f converts to int without wrapping.
// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
func inIntRange(f float64) bool {
	return f >= math.MinInt && f < -math.MinInt
}

// checkBounds enforces Minimum and Enum with messages naming the argument.
// The schema repeats both checks for clients validating on their side.
func checkBounds(meta api.ArgMetadata, value interface{}) error {
	if meta.Minimum != nil {
		if f, ok := toFloat(value); ok && f < *meta.Minimum {
			return api.NewValidationError(meta.Name, value, "must be >= %s", formatNumber(*meta.Minimum))
		}
	}
	if len(meta.Enum) > 0 && !enumContains(meta.Enum, value) {
		allowed := make([]string, len(meta.Enum))
		for i, e := range meta.Enum {
			allowed[i] = fmt.Sprint(e)
		}
		return api.NewValidationError(meta.Name, value, "must be one of: %s", strings.Join(allowed, ", "))
	}
	return nil
}

func enumContains(enum []interface{}, value interface{}) bool {
	vf, numeric := toFloat(value)
	if _, isString := value.(string); isString {
		numeric = false
	}
	for _, e := range enum {
		if numeric {
			if _, isString := e.(string); !isString {
				if ef, ok := toFloat(e); ok && ef == vf {
					return true
				}
			}
			continue
		}
		if e == value {
			return true
		}
	}
	return false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func describe(value interface{}) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return "unsupported value"
	}
}

// validationMessage strips the schema location prefixes added by the
// validator, keeping the innermost property and reason.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, "validating "); i >= 0 {
		msg = msg[i+len("validating "):]
	}
	return strings.TrimPrefix(msg, "/properties/")
}
