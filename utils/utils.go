package utils

import "strings"

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// Truncate shortens s to at most max runes, appending an ellipsis when it had to cut.
// Platform limits (thread names, select labels) are expressed in characters.
func Truncate(s string, max int) string {
	AssertInvariant(max > 0, "max must be positive")

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return string(runes[:1])
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
