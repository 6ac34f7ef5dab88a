package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/ringside/internal/hierarchy"
	"github.com/zjrosen/ringside/internal/ui/styles"
)

const (
	markerExpanded  = "▾ "
	markerCollapsed = "▸ "
	markerLeaf      = ""

	railContinue = "│   "
	railEmpty    = "    "
	branchMid    = "├─ "
	branchLast   = "└─ "
)

// EmptyText is shown when the tree has no rows.
const EmptyText = "No registrations"

// line is one formatted row before styling.
type line struct {
	prefix string
	marker string
	label  string
	suffix string // Count for groups, detail for leaves
	group  bool
	// fallback marks groups collecting records without a usable key.
	fallback bool
}

func formatRow(row hierarchy.Row, showCounts bool, detail DetailFunc) line {
	n := row.Node
	l := line{
		prefix: buildPrefix(row),
		label:  n.Label,
		group:  n.IsGroup(),
	}
	switch {
	case !n.HasChildren():
		l.marker = markerLeaf
	case n.Expanded:
		l.marker = markerExpanded
	default:
		l.marker = markerCollapsed
	}
	if l.group {
		if key, ok := n.Payload.(hierarchy.GroupKey); ok {
			l.fallback = key.Fallback
		}
		if showCounts {
			l.suffix = styles.FormatCount(n.Count)
		}
	} else if detail != nil {
		l.suffix = detail(n)
	}
	return l
}

// buildPrefix draws the rails of every ancestor below the top level followed
// by the branch connector. Top-level rows have no prefix.
func buildPrefix(row hierarchy.Row) string {
	if row.Depth == 0 {
		return ""
	}
	var sb strings.Builder
	for i := 1; i < row.Depth; i++ {
		if row.AncestorLast[i] {
			sb.WriteString(railEmpty)
		} else {
			sb.WriteString(railContinue)
		}
	}
	if row.Last {
		sb.WriteString(branchLast)
	} else {
		sb.WriteString(branchMid)
	}
	return sb.String()
}

// fit truncates the label so the row fits in width cells. The suffix is
// dropped before the label drops below a readable size.
func (l line) fit(width int, indicator int) line {
	if width <= 0 {
		return l
	}
	const minLabelWidth = 8
	used := indicator + runewidth.StringWidth(l.prefix) + runewidth.StringWidth(l.marker)
	suffixWidth := 0
	if l.suffix != "" {
		suffixWidth = runewidth.StringWidth(l.suffix) + 1
	}
	if width-used-suffixWidth < minLabelWidth {
		l.suffix = ""
		suffixWidth = 0
	}
	l.label = styles.TruncateString(l.label, max(width-used-suffixWidth, 0))
	return l
}

func (l line) plain() string {
	s := l.prefix + l.marker + l.label
	if l.suffix != "" {
		s += " " + l.suffix
	}
	return s
}

func (l line) styled(selected bool) string {
	labelStyle := styles.LeafStyle
	switch {
	case l.fallback:
		labelStyle = styles.FallbackStyle
	case l.group:
		labelStyle = styles.GroupStyle
	}
	if selected {
		labelStyle = labelStyle.Inherit(styles.SelectedStyle)
	}

	var sb strings.Builder
	sb.WriteString(styles.RailStyle.Render(l.prefix))
	sb.WriteString(l.marker)
	sb.WriteString(labelStyle.Render(l.label))
	if l.suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(styles.CountStyle.Render(l.suffix))
	}
	return sb.String()
}

// View renders the visible window of the tree.
func (m Model) View() string {
	if len(m.rows) == 0 {
		return styles.MutedStyle.Render(EmptyText)
	}

	var sb strings.Builder

	viewportHeight := m.viewportHeight()
	endIdx := min(m.scrollTop+viewportHeight, len(m.rows))

	if m.scrollTop > 0 {
		sb.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  ↑ %d more above", m.scrollTop)))
		sb.WriteString("\n")
	}

	for i := m.scrollTop; i < endIdx; i++ {
		sb.WriteString(zone.Mark(rowZoneID(i), m.renderRow(i)))
		sb.WriteString("\n")
	}

	if remaining := len(m.rows) - endIdx; remaining > 0 {
		sb.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func (m Model) renderRow(i int) string {
	selected := i == m.cursor
	l := formatRow(m.rows[i], m.showCounts, m.detail).fit(m.width, 2)

	var sb strings.Builder
	if selected {
		sb.WriteString(styles.SelectionIndicatorStyle.Render(">"))
	} else {
		sb.WriteString(" ")
	}
	sb.WriteString(" ")
	sb.WriteString(l.styled(selected))
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(sb.String())
	}
	return sb.String()
}

// RenderOptions configures Render.
type RenderOptions struct {
	ShowCounts bool
	Detail     DetailFunc
	// Width truncates rows to this many cells. Zero disables truncation.
	Width int
}

// Render writes the visible rows of roots as plain text, one per line.
func Render(w io.Writer, roots []*hierarchy.Node, opts RenderOptions) error {
	rows := hierarchy.Rows(roots)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, EmptyText)
		return err
	}
	for _, row := range rows {
		l := formatRow(row, opts.ShowCounts, opts.Detail).fit(opts.Width, 0)
		if _, err := fmt.Fprintln(w, strings.TrimRight(l.plain(), " ")); err != nil {
			return err
		}
	}
	return nil
}
