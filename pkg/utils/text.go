// Package utils provides shared utilities for text and logging.
package utils

// TruncateRunes caps s at max runes. Counting runes rather than bytes keeps
// accented text from being cut mid-character. If max is 0 or negative, returns
// s unchanged.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
