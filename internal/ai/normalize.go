package ai

import "strings"

// normalizeResponse strips a Markdown code fence (optionally language-tagged)
// and surrounding whitespace from raw model output. Models occasionally
// ignore the no-fence instruction, so this runs on every response.
// Idempotent: already-normalized text passes through unchanged.
func normalizeResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return strings.TrimSpace(strings.TrimPrefix(s, "```"))
		}
	}

	// Only strip a closing fence that terminates the text; backticks inside
	// a JSON string value are content, not fencing.
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(s[:len(s)-3])
	}

	return s
}
