package validators

import "strings"

// SanitizeString trims whitespace and truncates free-text input such as
// engraving text and client notes.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
