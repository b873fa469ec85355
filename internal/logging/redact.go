package logging

import "strings"

// Redact masks a secret value for log output, keeping the last four
// characters so operators can tell keys apart.
func Redact(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if len(trimmed) <= 4 {
		return "****"
	}

	return "****" + trimmed[len(trimmed)-4:]
}
