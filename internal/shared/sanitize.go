package shared

import (
	"strconv"
	"strings"
	"time"
)

// MaxTextLen is the cap applied to free-text fields before they reach storage.
const MaxTextLen = 255

// SanitizeText trims whitespace, maps empty strings to nil and truncates to maxLen runes.
func SanitizeText(val string, maxLen int) *string {
	s := strings.TrimSpace(val)
	if s == "" {
		return nil
	}
	if maxLen > 0 {
		if runes := []rune(s); len(runes) > maxLen {
			s = string(runes[:maxLen])
		}
	}
	return &s
}

// ParseInt coerces a JSON value (number or numeric string) to an int.
//
// Returns nil when the value is absent, unparsable or outside [minVal, maxVal].
// Callers treat nil as validation failure where the field is required.
func ParseInt(val any, minVal, maxVal int) *int {
	var i int
	switch v := val.(type) {
	case nil:
		return nil
	case int:
		i = v
	case int64:
		i = int(v)
	case float64:
		i = int(v)
		if float64(i) != v {
			return nil
		}
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		i = parsed
	default:
		return nil
	}
	if i < minVal || i > maxVal {
		return nil
	}
	return &i
}

// ParseFloat coerces a JSON value (number or numeric string) to a float64 no smaller than minVal.
//
// Returns nil for absent or unparsable values, mirroring [ParseInt].
func ParseFloat(val any, minVal float64) *float64 {
	var f float64
	switch v := val.(type) {
	case nil:
		return nil
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f < minVal {
		return nil
	}
	return &f
}

// ParseDate validates a strict YYYY-MM-DD date string.
//
// Anything else, including zero-padded variants that would round-trip
// differently, is treated as absent.
func ParseDate(val string) *string {
	s := strings.TrimSpace(val)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil || t.Format("2006-01-02") != s {
		return nil
	}
	return &s
}
