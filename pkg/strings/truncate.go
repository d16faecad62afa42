// Package strings holds text helpers for command line output.
package strings

import (
	"strings"
)

// DefaultDescriptionMaxLen is the description width used by capability tables.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the smallest width TruncateDescription honours: one
// character plus the "..." marker.
const MinTruncateLen = 4

// TruncateDescription flattens s onto a single line and shortens it to at most
// maxLen runes, ending with "..." when anything was cut. Runs of whitespace,
// including newlines and tabs, collapse to one space. A maxLen below
// MinTruncateLen is raised to MinTruncateLen.
func TruncateDescription(s string, maxLen int) string {
	maxLen = max(maxLen, MinTruncateLen)

	flat := strings.Join(strings.Fields(s), " ")
	runes := []rune(flat)
	if len(runes) <= maxLen {
		return flat
	}
	return string(runes[:maxLen-3]) + "..."
}
