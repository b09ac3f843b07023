package textutil

import "strings"

// TruncateRunes cuts s to at most limit runes. The second result reports
// whether anything was removed.
func TruncateRunes(s string, limit int) (string, bool) {
	if limit <= 0 {
		return "", s != ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// Preview returns the first limit runes of s with "..." appended when the
// text was longer.
func Preview(s string, limit int) string {
	s = strings.TrimSpace(s)
	cut, truncated := TruncateRunes(s, limit)
	if truncated {
		return cut + "..."
	}
	return cut
}
