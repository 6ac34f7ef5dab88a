package hierarchy

// Navigator holds the current snapshot of a tree and replaces it on every
// mutating call. Snapshots handed out by Roots stay valid and unchanged after
// later calls.
//
// A Navigator is not safe for concurrent use; its owner serializes calls the
// way a bubbletea Update loop does.
type Navigator struct {
	roots []*Node
}

// NewNavigator wraps roots. A nil slice is treated as an empty tree.
func NewNavigator(roots []*Node) *Navigator {
	if roots == nil {
		roots = []*Node{}
	}
	return &Navigator{roots: roots}
}

// Roots returns the current snapshot.
func (nav *Navigator) Roots() []*Node {
	return nav.roots
}

// Reset replaces the tree, e.g. after the source data was fetched again.
func (nav *Navigator) Reset(roots []*Node) {
	if roots == nil {
		roots = []*Node{}
	}
	nav.roots = roots
}

func (nav *Navigator) apply(roots []*Node) []*Node {
	nav.roots = roots
	return roots
}

// Toggle flips the node with the given id and returns the new snapshot.
func (nav *Navigator) Toggle(id string) []*Node {
	return nav.apply(Toggle(nav.roots, id))
}

// Expand expands the node with the given id and returns the new snapshot.
func (nav *Navigator) Expand(id string) []*Node {
	return nav.apply(Expand(nav.roots, id))
}

// Collapse collapses the node with the given id and returns the new snapshot.
func (nav *Navigator) Collapse(id string) []*Node {
	return nav.apply(Collapse(nav.roots, id))
}

// ExpandAll expands every node and returns the new snapshot.
func (nav *Navigator) ExpandAll() []*Node {
	return nav.apply(ExpandAll(nav.roots))
}

// CollapseAll collapses every node and returns the new snapshot.
func (nav *Navigator) CollapseAll() []*Node {
	return nav.apply(CollapseAll(nav.roots))
}

// ExpandToNode shows only the path to id and returns the new snapshot.
func (nav *Navigator) ExpandToNode(id string) []*Node {
	return nav.apply(ExpandToNode(nav.roots, id))
}

// Reveal expands the path to id, leaving other nodes alone.
func (nav *Navigator) Reveal(id string) []*Node {
	return nav.apply(Reveal(nav.roots, id))
}

// FindNode looks up id in the current snapshot.
func (nav *Navigator) FindNode(id string) (*Node, bool) {
	return FindNode(nav.roots, id)
}

// NodePath returns the root-to-target path of id in the current snapshot.
func (nav *Navigator) NodePath(id string) []*Node {
	return NodePath(nav.roots, id)
}

// Parent returns the parent of id in the current snapshot.
func (nav *Navigator) Parent(id string) (*Node, bool) {
	return Parent(nav.roots, id)
}

// VisibleNodes returns the display order of the current snapshot.
func (nav *Navigator) VisibleNodes() []*Node {
	return VisibleNodes(nav.roots)
}

// Rows returns the visible rows of the current snapshot.
func (nav *Navigator) Rows() []Row {
	return Rows(nav.roots)
}

// Count returns the total number of leaves, or the count of the node with
// the given id when one is passed (0 if unknown).
func (nav *Navigator) Count(id ...string) int {
	if len(id) == 0 {
		return TotalCount(nav.roots)
	}
	return NodeCount(nav.roots, id[0])
}
