// Package toast renders short-lived notifications over the bottom of a view.
package toast

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/ringside/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Kind selects the border colour and icon.
type Kind int

const (
	// KindInfo shows • with a blue border.
	KindInfo Kind = iota
	// KindSuccess shows ✓ with a green border.
	KindSuccess
	// KindError shows ✗ with a red border.
	KindError
)

// DismissMsg hides the toast it was scheduled for. A newer toast ignores it.
type DismissMsg struct {
	seq int
}

// Model holds the current toast, if any.
type Model struct {
	message string
	kind    Kind
	seq     int
}

// New creates an empty toast model.
func New() Model {
	return Model{}
}

// Show replaces the current toast and returns a command that dismisses it
// after d.
func (m Model) Show(message string, kind Kind, d time.Duration) (Model, tea.Cmd) {
	m.seq++
	m.message = message
	m.kind = kind
	seq := m.seq
	return m, tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		m.message = ""
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.message != ""
}

// Message returns the text of the current toast.
func (m Model) Message() string {
	return m.message
}

// Kind returns the kind of the current toast.
func (m Model) Kind() Kind {
	return m.kind
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var icon string
	switch m.kind {
	case KindSuccess:
		style = style.BorderForeground(styles.StatusSuccessColor)
		icon = "✓ "
	case KindError:
		style = style.BorderForeground(styles.StatusErrorColor)
		icon = "✗ "
	default:
		style = style.BorderForeground(styles.StatusInfoColor)
		icon = "• "
	}
	return style.Render(icon + m.message)
}

// Overlay draws the toast centred one line above the bottom of bg, which is
// padded to height lines first. ANSI styling on both sides is kept.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.Visible() {
		return bg
	}
	return place(m.View(), bg, width, height, 1)
}

func place(fg, bg string, width, height, padY int) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	startX := max((width-lipgloss.Width(fg))/2, 0)
	startY := max(height-len(fgLines)-padY, 0)

	for i, fgLine := range fgLines {
		y := startY + i
		if y >= len(bgLines) {
			break
		}
		bgLine := bgLines[y]

		left := ansi.Truncate(bgLine, startX, "")
		if w := ansi.StringWidth(left); w < startX {
			left += strings.Repeat(" ", startX-w)
		}
		var right string
		if endX := startX + ansi.StringWidth(fgLine); endX < ansi.StringWidth(bgLine) {
			right = ansi.TruncateLeft(bgLine, endX, "")
		}
		bgLines[y] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}
