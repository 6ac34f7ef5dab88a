package hierarchy

// Action tells Walk how to continue after visiting a node.
type Action int

const (
	Continue     Action = iota // Descend into children, then siblings
	SkipChildren               // Do not descend, continue with siblings
	Stop                       // End the walk
)

// Location describes where a visited node sits in the tree.
// Its slices are owned by Walk and reused between visits; copy them to retain.
type Location struct {
	Ancestors []*Node // Root first, excluding the visited node
	last      []bool  // last[i] for Ancestors[i], final entry for the visited node
}

// Depth is the number of ancestors (0 for roots).
func (l Location) Depth() int {
	return len(l.Ancestors)
}

// IsLast reports whether the visited node is the last of its siblings.
func (l Location) IsLast() bool {
	return l.last[len(l.last)-1]
}

// AncestorIsLast reports whether Ancestors[i] is the last of its siblings.
func (l Location) AncestorIsLast(i int) bool {
	return l.last[i]
}

// VisitFunc is called once per node reached by Walk.
type VisitFunc func(n *Node, loc Location) Action

// Walk visits roots in pre-order: a parent before its children, siblings in
// slice order. Every read-only query in this package is built on it, so the
// order is part of the package contract: FindNode returns the first node in
// this order and VisibleNodes lists rows in this order.
func Walk(roots []*Node, visit VisitFunc) {
	w := walker{visit: visit}
	w.walk(roots)
}

type walker struct {
	visit     VisitFunc
	ancestors []*Node
	last      []bool
	stopped   bool
}

func (w *walker) walk(nodes []*Node) {
	for i, n := range nodes {
		w.last = append(w.last, i == len(nodes)-1)
		action := w.visit(n, Location{Ancestors: w.ancestors, last: w.last})
		switch action {
		case Stop:
			w.stopped = true
		case Continue:
			if len(n.Children) > 0 {
				w.ancestors = append(w.ancestors, n)
				w.walk(n.Children)
				w.ancestors = w.ancestors[:len(w.ancestors)-1]
			}
		}
		w.last = w.last[:len(w.last)-1]
		if w.stopped {
			return
		}
	}
}

// rewriteFunc returns the replacement for n (n itself to keep it) and whether
// the rewrite should descend into the replacement's children.
type rewriteFunc func(n *Node) (*Node, bool)

// rewrite applies fn over nodes in pre-order and returns the resulting slice.
// A slice or node is only reallocated when something beneath it changed; the
// second result reports whether anything did.
func rewrite(nodes []*Node, fn rewriteFunc) ([]*Node, bool) {
	var out []*Node
	for i, n := range nodes {
		repl, descend := fn(n)
		if descend && len(repl.Children) > 0 {
			children, changed := rewrite(repl.Children, fn)
			if changed {
				if repl == n {
					c := *n
					repl = &c
				}
				repl.Children = children
			}
		}
		if repl != n {
			if out == nil {
				out = make([]*Node, len(nodes))
				copy(out, nodes)
			}
			out[i] = repl
		}
	}
	if out == nil {
		return nodes, false
	}
	return out, true
}

// pathSet returns the nodes on the path to id, keyed by pointer, and the
// target itself. The set is nil when id is not in the tree.
func pathSet(roots []*Node, id string) (map[*Node]bool, *Node) {
	path := NodePath(roots, id)
	if len(path) == 0 {
		return nil, nil
	}
	set := make(map[*Node]bool, len(path))
	for _, n := range path {
		set[n] = true
	}
	return set, path[len(path)-1]
}

// updateNode replaces the node with the given id by fn(node), reallocating
// only its ancestors. roots is returned unchanged when id is unknown or fn
// returns the node itself.
func updateNode(roots []*Node, id string, fn func(*Node) *Node) []*Node {
	onPath, target := pathSet(roots, id)
	if target == nil {
		return roots
	}
	out, _ := rewrite(roots, func(n *Node) (*Node, bool) {
		if !onPath[n] {
			return n, false
		}
		if n == target {
			return fn(n), false
		}
		return n, true
	})
	return out
}
