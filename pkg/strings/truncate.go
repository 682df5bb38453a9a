package strings

import (
	"strings"
)

// DefaultCellMaxLen is the widest a widget text is shown in a table cell.
// Widget texts are free-form and may span several lines.
const DefaultCellMaxLen = 48

// MinTruncateLen is the smallest maxLen OneLine honours. It leaves room for
// at least one rune plus the ellipsis.
const MinTruncateLen = 2

// Ellipsis marks truncated text.
const Ellipsis = "…"

// OneLine collapses all whitespace runs in s, including newlines, into single
// spaces and truncates the result to maxLen runes, ending it with Ellipsis
// when something was cut. maxLen values below MinTruncateLen are raised to it.
func OneLine(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + Ellipsis
	}
	return s
}
