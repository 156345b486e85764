package core

import "unicode/utf8"

// Truncate shortens s to at most max bytes without splitting a multi-byte
// rune. The bound is in bytes so stored summaries keep a predictable size;
// the cut backs up to the nearest rune boundary.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 0 {
		max = 0
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
