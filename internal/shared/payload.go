package shared

import (
	"math"
	"strconv"
	"strings"
)

// SafeString returns value trimmed when it is a string and "" otherwise.
func SafeString(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}

	return strings.TrimSpace(s)
}

// Truthy reports whether a loosely decoded JSON value reads as true.
// Booleans pass through, strings go through TruthyString and numbers are
// true when nonzero.
func Truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return TruthyString(v)
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// NonNegativeInt converts a loosely decoded JSON value into a non-negative
// int. Numeric strings are accepted. Booleans, fractional numbers and
// negative values are not; nil means the value is unusable.
func NonNegativeInt(value any) *int {
	switch v := value.(type) {
	case bool:
		return nil
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return nil
		}

		n := int(v)
		return &n
	case int:
		if v < 0 {
			return nil
		}

		n := v
		return &n
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}

		n, err := strconv.Atoi(trimmed)
		if err != nil || n < 0 {
			return nil
		}

		return &n
	default:
		return nil
	}
}
