package hierarchy

// Unknown ids are never an error: trees are rebuilt on every refresh, so ids
// from a previous snapshot are expected. Mutations return roots unchanged,
// queries return nil, false or 0.

// Toggle flips the expansion state of the node with the given id.
func Toggle(roots []*Node, id string) []*Node {
	return updateNode(roots, id, func(n *Node) *Node {
		return n.withExpanded(!n.Expanded)
	})
}

// Expand marks the node with the given id as expanded.
func Expand(roots []*Node, id string) []*Node {
	return updateNode(roots, id, func(n *Node) *Node {
		return n.withExpanded(true)
	})
}

// Collapse marks the node with the given id as collapsed.
func Collapse(roots []*Node, id string) []*Node {
	return updateNode(roots, id, func(n *Node) *Node {
		return n.withExpanded(false)
	})
}

// ExpandAll expands every node at every depth in a single traversal.
func ExpandAll(roots []*Node) []*Node {
	return setAll(roots, true)
}

// CollapseAll collapses every node at every depth in a single traversal.
func CollapseAll(roots []*Node) []*Node {
	return setAll(roots, false)
}

func setAll(roots []*Node, expanded bool) []*Node {
	out, _ := rewrite(roots, func(n *Node) (*Node, bool) {
		return n.withExpanded(expanded), true
	})
	return out
}

// ExpandToNode reveals the node with the given id: the target and its
// ancestors are expanded and every other node in the tree is collapsed.
func ExpandToNode(roots []*Node, id string) []*Node {
	onPath, _ := pathSet(roots, id)
	if onPath == nil {
		return roots
	}
	out, _ := rewrite(roots, func(n *Node) (*Node, bool) {
		return n.withExpanded(onPath[n]), true
	})
	return out
}

// Reveal expands the target and its ancestors and leaves every other node
// as it was.
func Reveal(roots []*Node, id string) []*Node {
	onPath, _ := pathSet(roots, id)
	if onPath == nil {
		return roots
	}
	out, _ := rewrite(roots, func(n *Node) (*Node, bool) {
		if !onPath[n] {
			return n, false
		}
		return n.withExpanded(true), true
	})
	return out
}

// FindNode returns the first node with the given id in pre-order.
func FindNode(roots []*Node, id string) (*Node, bool) {
	var found *Node
	Walk(roots, func(n *Node, _ Location) Action {
		if n.ID == id {
			found = n
			return Stop
		}
		return Continue
	})
	return found, found != nil
}

// NodePath returns the nodes from a root down to the node with the given id,
// inclusive. The path leads to the same node FindNode returns.
func NodePath(roots []*Node, id string) []*Node {
	var path []*Node
	Walk(roots, func(n *Node, loc Location) Action {
		if n.ID != id {
			return Continue
		}
		path = make([]*Node, 0, loc.Depth()+1)
		path = append(path, loc.Ancestors...)
		path = append(path, n)
		return Stop
	})
	if path == nil {
		return []*Node{}
	}
	return path
}

// Parent returns the parent of the node with the given id.
// Roots and unknown ids report false.
func Parent(roots []*Node, id string) (*Node, bool) {
	path := NodePath(roots, id)
	if len(path) < 2 {
		return nil, false
	}
	return path[len(path)-2], true
}

// VisibleNodes flattens the tree in display order: pre-order, descending into
// a node's children only while that node is expanded. A node is listed if and
// only if all of its ancestors are expanded.
func VisibleNodes(roots []*Node) []*Node {
	visible := []*Node{}
	Walk(roots, func(n *Node, _ Location) Action {
		visible = append(visible, n)
		if !n.Expanded {
			return SkipChildren
		}
		return Continue
	})
	return visible
}

// AllNodes lists every node in pre-order regardless of expansion state.
func AllNodes(roots []*Node) []*Node {
	all := []*Node{}
	Walk(roots, func(n *Node, _ Location) Action {
		all = append(all, n)
		return Continue
	})
	return all
}

// TotalCount is the number of leaves in the whole tree.
func TotalCount(roots []*Node) int {
	return sumCounts(roots)
}

// NodeCount is the leaf count of the node with the given id.
func NodeCount(roots []*Node, id string) int {
	n, ok := FindNode(roots, id)
	if !ok {
		return 0
	}
	return n.Count
}
