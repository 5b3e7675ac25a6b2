package validate

import (
	"strings"
	"time"
)

// sanitizeDate parses a date-like value defensively. Time and zone suffixes
// are dropped before parsing. The second return is false when the value is
// unparseable or fails the sanity bounds: a year more than PastYearWindow
// years before the current year, or a date more than FutureWindowDays in the
// future, is treated as a model hallucination.
func (r Rules) sanitizeDate(raw any, now time.Time) (string, bool) {
	s := strings.TrimSpace(stringValue(raw))
	if s == "" {
		return "", false
	}

	// "2024-03-14T15:04:05Z" or "2024-03-14 15:04" → "2024-03-14"
	if idx := strings.IndexAny(s, "T "); idx != -1 {
		s = s[:idx]
	}

	parsed, err := time.Parse(dateFormat, s)
	if err != nil {
		return "", false
	}

	if parsed.Year() < now.Year()-r.PastYearWindow {
		return "", false
	}
	if parsed.After(now.AddDate(0, 0, r.FutureWindowDays)) {
		return "", false
	}

	return parsed.Format(dateFormat), true
}

// requiredDate always yields a date: the sanitized value when usable,
// otherwise the call-time current date.
func (r Rules) requiredDate(raw any, now time.Time, field string) string {
	if s, ok := r.sanitizeDate(raw, now); ok {
		return s
	}
	if raw != nil {
		r.log.Warn().
			Str("field", field).
			Interface("value", raw).
			Msg("replacing implausible date with current date")
	}
	return now.Format(dateFormat)
}

// optionalDate yields the sanitized value, the current date when a value was
// present but implausible, or empty when the field was absent.
func (r Rules) optionalDate(raw any, now time.Time, field string) string {
	if raw == nil || strings.TrimSpace(stringValue(raw)) == "" {
		return ""
	}
	return r.requiredDate(raw, now, field)
}
