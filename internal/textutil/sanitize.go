package textutil

import (
	"path/filepath"
	"strings"
)

// SanitizeExtension returns a lowercase filesystem-safe extension (with dot)
// taken from name, or fallback when name has none. Only ASCII letters and
// digits survive, capped at 8 characters.
func SanitizeExtension(name, fallback string) string {
	ext := strings.TrimPrefix(filepath.Ext(strings.TrimSpace(name)), ".")
	var b strings.Builder
	for _, r := range ext {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
		if b.Len() == 8 {
			break
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return "." + b.String()
}
