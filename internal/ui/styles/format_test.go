package styles

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "Rex", 10, "Rex"},
		{"exact", "Luna", 4, "Luna"},
		{"truncated", "Östgötaspets", 8, "Östgö..."},
		{"zero width", "Rex", 0, ""},
		{"negative width", "Rex", -2, ""},
		{"only dots", "Basenji", 3, "..."},
		{"two dots", "Basenji", 2, ".."},
		{"wide runes", "柴犬の太郎くん", 9, "柴犬の..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxWidth)
			require.Equal(t, tt.expected, got, "TruncateString(%q, %d)", tt.input, tt.maxWidth)
			if tt.maxWidth > 0 {
				require.LessOrEqual(t, runewidth.StringWidth(got), tt.maxWidth)
			}
		})
	}
}

func TestFormatCount(t *testing.T) {
	require.Equal(t, "(0)", FormatCount(0))
	require.Equal(t, "(12)", FormatCount(12))
	require.Equal(t, "", FormatCount(-1))
}
