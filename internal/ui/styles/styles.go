// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"} // Dog names, group labels
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BBBBBB"} // Counts, catalog numbers
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#696969"} // Tree rails, hints, footers

	// Semantic color names - Status
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#FECA57"} // Fallback groups
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#FF8787"} // Load errors
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#73F59F"} // Saved settings
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // Notices

	// Header accent
	HeaderColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}

	// Selection indicator color (used for ">" prefix in lists)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	SelectionBgColor        = lipgloss.AdaptiveColor{Light: "#DCE0E8", Dark: "#313244"}

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	GroupStyle    = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	FallbackStyle = lipgloss.NewStyle().Bold(true).Italic(true).Foreground(StatusWarningColor)
	LeafStyle     = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	SelectedStyle = lipgloss.NewStyle().Background(SelectionBgColor)
	CountStyle    = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	RailStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle    = lipgloss.NewStyle().Foreground(StatusErrorColor)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(HeaderColor)
)
