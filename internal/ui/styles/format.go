package styles

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// TruncateString truncates a string to fit within maxWidth terminal cells,
// adding an ellipsis if needed. Wide runes count as two cells.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(ellipsis) {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// FormatCount renders a group size, e.g. "(12)".
// Returns empty string for counts below zero.
func FormatCount(count int) string {
	if count < 0 {
		return ""
	}
	return fmt.Sprintf("(%d)", count)
}
