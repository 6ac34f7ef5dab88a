// Package tree implements the collapsible registration tree view.
package tree

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/ringside/internal/hierarchy"
	"github.com/zjrosen/ringside/internal/keys"
	"github.com/zjrosen/ringside/internal/log"
)

// zoneRowPrefix prefixes the bubblezone id of each visible row.
const zoneRowPrefix = "tree-row:"

// DetailFunc returns extra text shown after a leaf label, e.g. a catalog
// number. An empty result shows nothing.
type DetailFunc func(n *hierarchy.Node) string

// Option configures a Model.
type Option func(*Model)

// WithCounts shows the number of dogs after each group label.
func WithCounts(show bool) Option {
	return func(m *Model) {
		m.showCounts = show
	}
}

// WithDetail sets the leaf detail renderer.
func WithDetail(fn DetailFunc) Option {
	return func(m *Model) {
		m.detail = fn
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km keys.TreeKeyMap) Option {
	return func(m *Model) {
		m.keys = km
	}
}

// Model is the tree view. The expansion state lives in the navigator; the
// model only tracks the cursor and the scroll window over the visible rows.
type Model struct {
	nav        *hierarchy.Navigator
	rows       []hierarchy.Row // Visible rows of the current snapshot
	cursor     int             // Index into rows
	scrollTop  int             // First visible row index
	width      int
	height     int
	showCounts bool
	detail     DetailFunc
	keys       keys.TreeKeyMap
}

// New creates a tree view over roots with the cursor on the first row.
func New(roots []*hierarchy.Node, opts ...Option) Model {
	m := Model{
		nav:  hierarchy.NewNavigator(roots),
		keys: keys.Tree,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.rows = m.nav.Rows()
	return m
}

// SetSize sets the viewport dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
	return m
}

// SetRoots replaces the tree, e.g. after the registrations were reloaded.
// Groups collapsed in the old tree stay collapsed. The cursor stays on the
// same node id when it is still visible, otherwise on its deepest visible
// ancestor.
func (m Model) SetRoots(roots []*hierarchy.Node) Model {
	selected := m.SelectedNode()
	for _, n := range hierarchy.AllNodes(m.nav.Roots()) {
		if n.IsGroup() && !n.Expanded {
			roots = hierarchy.Collapse(roots, n.ID)
		}
	}
	m.nav.Reset(roots)
	m.rows = m.nav.Rows()
	if selected != nil {
		m.selectID(selected.ID)
	} else {
		m.cursor = 0
	}
	m.ensureCursorVisible()
	return m
}

// Roots returns the current snapshot.
func (m Model) Roots() []*hierarchy.Node {
	return m.nav.Roots()
}

// Navigator exposes the navigator backing the view.
func (m Model) Navigator() *hierarchy.Navigator {
	return m.nav
}

// Rows returns the visible rows.
func (m Model) Rows() []hierarchy.Row {
	return m.rows
}

// Cursor returns the index of the selected row.
func (m Model) Cursor() int {
	return m.cursor
}

// SelectedNode returns the node under the cursor, or nil for an empty tree.
func (m Model) SelectedNode() *hierarchy.Node {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor].Node
	}
	return nil
}

// SelectByID moves the cursor to the row showing id.
// Returns false if no visible row has that id.
func (m Model) SelectByID(id string) (Model, bool) {
	idx := hierarchy.IndexOf(m.rows, id)
	if idx < 0 {
		return m, false
	}
	m.cursor = idx
	m.ensureCursorVisible()
	return m, true
}

// MoveCursor moves the cursor by delta, respecting bounds.
func (m Model) MoveCursor(delta int) Model {
	m.cursor = clamp(m.cursor+delta, 0, len(m.rows)-1)
	m.ensureCursorVisible()
	return m
}

// CollapseAll collapses every group.
func (m Model) CollapseAll() Model {
	return m.apply(m.nav.CollapseAll)
}

// ExpandAll expands every group.
func (m Model) ExpandAll() Model {
	return m.apply(m.nav.ExpandAll)
}

// Update handles key and mouse input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg), nil
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.MoveCursor(1)
	case key.Matches(msg, m.keys.Top):
		return m.MoveCursor(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		return m.MoveCursor(len(m.rows))
	case key.Matches(msg, m.keys.Expand):
		return m.expandOrDescend()
	case key.Matches(msg, m.keys.Collapse):
		return m.collapseOrAscend()
	case key.Matches(msg, m.keys.Toggle):
		return m.onSelected(m.nav.Toggle)
	case key.Matches(msg, m.keys.ExpandAll):
		return m.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		return m.CollapseAll()
	case key.Matches(msg, m.keys.Focus):
		return m.onSelected(m.nav.ExpandToNode)
	}
	return m
}

// handleMouse toggles the group under a left click.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m
	}
	end := min(m.scrollTop+m.viewportHeight(), len(m.rows))
	for i := m.scrollTop; i < end; i++ {
		if z := zone.Get(rowZoneID(i)); z != nil && z.InBounds(msg) {
			m.cursor = i
			if m.rows[i].Node.IsGroup() {
				return m.onSelected(m.nav.Toggle)
			}
			m.ensureCursorVisible()
			return m
		}
	}
	return m
}

// expandOrDescend expands a collapsed group, or moves into the first child
// of an expanded one.
func (m Model) expandOrDescend() Model {
	n := m.SelectedNode()
	if n == nil || !n.HasChildren() {
		return m
	}
	if !n.Expanded {
		return m.onSelected(m.nav.Expand)
	}
	return m.MoveCursor(1)
}

// collapseOrAscend collapses an expanded group, or moves to the parent of a
// collapsed group or leaf.
func (m Model) collapseOrAscend() Model {
	n := m.SelectedNode()
	if n == nil {
		return m
	}
	if n.HasChildren() && n.Expanded {
		return m.onSelected(m.nav.Collapse)
	}
	if parent, ok := m.nav.Parent(n.ID); ok {
		m, _ = m.SelectByID(parent.ID)
	}
	return m
}

// onSelected applies op to the node under the cursor and keeps the cursor on
// that node.
func (m Model) onSelected(op func(id string) []*hierarchy.Node) Model {
	n := m.SelectedNode()
	if n == nil {
		return m
	}
	op(n.ID)
	log.Debug(log.CatTree, "node updated", "id", n.ID)
	m.rows = m.nav.Rows()
	m.selectID(n.ID)
	m.ensureCursorVisible()
	return m
}

// apply runs a whole-tree operation and keeps the cursor on the same node, or
// its nearest visible ancestor.
func (m Model) apply(op func() []*hierarchy.Node) Model {
	var id string
	if n := m.SelectedNode(); n != nil {
		id = n.ID
	}
	op()
	m.rows = m.nav.Rows()
	m.selectID(id)
	m.ensureCursorVisible()
	return m
}

// selectID puts the cursor on id, falling back to the deepest visible node
// on its path and then to the nearest row to the old position.
func (m *Model) selectID(id string) {
	if idx := hierarchy.IndexOf(m.rows, id); idx >= 0 {
		m.cursor = idx
		return
	}
	path := m.nav.NodePath(id)
	for i := len(path) - 1; i >= 0; i-- {
		if idx := hierarchy.IndexOf(m.rows, path[i].ID); idx >= 0 {
			m.cursor = idx
			return
		}
	}
	m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
}

// ensureCursorVisible adjusts scrollTop to keep cursor in view.
func (m *Model) ensureCursorVisible() {
	viewportHeight := m.viewportHeight()
	if viewportHeight <= 0 {
		return
	}

	if m.cursor >= m.scrollTop+viewportHeight {
		m.scrollTop = m.cursor - viewportHeight + 1
	}
	if m.cursor < m.scrollTop {
		m.scrollTop = m.cursor
	}

	maxScroll := max(len(m.rows)-viewportHeight, 0)
	m.scrollTop = clamp(m.scrollTop, 0, maxScroll)
}

// viewportHeight returns the number of visible rows. Two lines are kept for
// the scroll indicators. An unsized model shows every row.
func (m Model) viewportHeight() int {
	if m.height <= 0 {
		return max(len(m.rows), 1)
	}
	reserved := 2
	if m.height > reserved {
		return m.height - reserved
	}
	return 1
}

func rowZoneID(index int) string {
	return zoneRowPrefix + strconv.Itoa(index)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
