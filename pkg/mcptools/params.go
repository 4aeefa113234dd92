package mcptools

import (
	"fmt"
	"strings"
)

// ReadString reads a string parameter from input.
func ReadString(params map[string]any, key string, required bool) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("parameter %q is required", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		if required {
			return "", fmt.Errorf("parameter %q must be a string", key)
		}
		return "", nil
	}
	return strings.TrimSpace(s), nil
}

// ReadStringDefault reads a string parameter with a default value.
func ReadStringDefault(params map[string]any, key, defaultVal string) string {
	s, err := ReadString(params, key, false)
	if err != nil || s == "" {
		return defaultVal
	}
	return s
}

// ReadInt reads an integer parameter. JSON numbers arrive as float64.
func ReadInt(params map[string]any, key string, defaultVal int) int {
	v, ok := params[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return defaultVal
	}
}

// ReadBool reads a boolean parameter.
func ReadBool(params map[string]any, key string, defaultVal bool) bool {
	v, ok := params[key]
	if !ok || v == nil {
		return defaultVal
	}
	b, ok := v.(bool)
	if !ok {
		return defaultVal
	}
	return b
}
