package tool

import (
	"slices"
	"strings"
)

// Schema is the declarative description of a tool's accepted parameters. It
// marshals directly into the protocol's inputSchema field, so the JSON shape
// follows JSON Schema conventions.
type Schema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

// Property describes one accepted parameter.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// NewObjectSchema returns an empty object schema ready for properties.
func NewObjectSchema() Schema {
	return Schema{
		Type:       "object",
		Properties: make(map[string]Property),
	}
}

// WithProperty adds a property and returns the schema for chaining.
func (s Schema) WithProperty(name string, prop Property) Schema {
	if s.Properties == nil {
		s.Properties = make(map[string]Property)
	}
	s.Properties[name] = prop
	return s
}

// WithRequired marks parameter names as required.
func (s Schema) WithRequired(names ...string) Schema {
	s.Required = append(s.Required, names...)
	return s
}

// Validate checks args against the schema and returns a ToolError with code
// INVALID_ARGS on the first violation. A nil argument map is always rejected;
// tools call this from ValidateArgs so constraints fail fast, before any side
// effect.
func (s Schema) Validate(toolName string, args map[string]any) error {
	if args == nil {
		return Errorf(toolName, CodeInvalidArgs, "arguments cannot be nil")
	}

	for _, key := range s.Required {
		if _, ok := args[key]; !ok {
			return Errorf(toolName, CodeInvalidArgs, "missing required argument %q", key)
		}
	}

	if s.AdditionalProperties != nil && !*s.AdditionalProperties {
		for key := range args {
			if _, ok := s.Properties[key]; !ok {
				return Errorf(toolName, CodeInvalidArgs, "unknown argument %q", key)
			}
		}
	}

	for key, prop := range s.Properties {
		value, ok := args[key]
		if !ok || value == nil {
			continue
		}
		if err := validateValue(toolName, key, prop, value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(toolName, key string, prop Property, value any) error {
	switch prop.Type {
	case "string":
		str, ok := value.(string)
		if !ok {
			return typeMismatch(toolName, key, "string", value)
		}
		if len(prop.Enum) > 0 && !slices.Contains(prop.Enum, str) {
			return Errorf(toolName, CodeInvalidArgs,
				"argument %q must be one of [%s], got %q", key, strings.Join(prop.Enum, ", "), str)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return typeMismatch(toolName, key, "boolean", value)
		}
	case "number", "integer":
		switch value.(type) {
		case int, int64, float64:
		default:
			return typeMismatch(toolName, key, prop.Type, value)
		}
	case "array":
		if _, ok := value.([]any); !ok {
			if _, ok := value.([]string); !ok {
				return typeMismatch(toolName, key, "array", value)
			}
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			return typeMismatch(toolName, key, "object", value)
		}
	}
	return nil
}

func typeMismatch(toolName, key, want string, got any) error {
	return Errorf(toolName, CodeInvalidArgs, "argument %q must be a %s, got %T", key, want, got)
}

// StringArg extracts a string argument, falling back when absent or empty.
func StringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// BoolArg extracts a boolean argument with a fallback.
func BoolArg(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// StringSliceArg extracts a string list from either []string or []any form.
func StringSliceArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ObjectArg extracts a nested object argument, never returning nil.
func ObjectArg(args map[string]any, key string) map[string]any {
	if v, ok := args[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}
