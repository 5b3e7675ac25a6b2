package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// stringValue coerces an untyped JSON value into a string, or "" when the
// value is absent or not string-like.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

// numberValue coerces an untyped JSON value into a float64. Numeric strings
// count ("150", "1,500.00"); anything else does not.
func numberValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := parseAmount(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// boolValue coerces an untyped JSON value into a bool.
func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(val)))
		return err == nil && b
	default:
		return false
	}
}

// tagsValue coerces an untyped JSON value into a string→string map. Lists
// and scalars collapse to an empty map: tags must always be a mapping.
func tagsValue(v any) map[string]string {
	tags := make(map[string]string)
	m, ok := v.(map[string]any)
	if !ok {
		return tags
	}
	for k, raw := range m {
		switch val := raw.(type) {
		case string:
			tags[k] = val
		case float64:
			tags[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			tags[k] = strconv.FormatBool(val)
		}
	}
	return tags
}
