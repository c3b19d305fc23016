// Package security holds helpers for turning user-chosen names into safe
// file system paths.
package security

import "strings"

const maxFilenameLen = 128

// SanitizeFilename maps an analysis or histogram name onto a single path
// element. Anything but ASCII letters, digits, '.', '_' and '-' becomes one
// underscore per run, leading and trailing dots and underscores are dropped,
// and the result is capped at 128 bytes. An empty result becomes "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
			underscore = false
		case !underscore:
			b.WriteByte('_')
			underscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
