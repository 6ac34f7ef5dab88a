package hierarchy

// Row is one visible line of the tree with the layout data a renderer needs.
type Row struct {
	Node  *Node
	Depth int
	// Last reports whether Node is the last of its siblings.
	Last bool
	// AncestorLast[i] reports whether the ancestor at depth i is the last of
	// its siblings. Renderers draw a continuing rail for every false entry.
	AncestorLast []bool
}

// Rows returns the visible projection of roots, in the same order as
// VisibleNodes, annotated for drawing branch prefixes.
func Rows(roots []*Node) []Row {
	rows := []Row{}
	Walk(roots, func(n *Node, loc Location) Action {
		ancestorLast := make([]bool, loc.Depth())
		for i := range ancestorLast {
			ancestorLast[i] = loc.AncestorIsLast(i)
		}
		rows = append(rows, Row{
			Node:         n,
			Depth:        loc.Depth(),
			Last:         loc.IsLast(),
			AncestorLast: ancestorLast,
		})
		if !n.Expanded {
			return SkipChildren
		}
		return Continue
	})
	return rows
}

// IndexOf returns the position of the row showing id, or -1.
func IndexOf(rows []Row, id string) int {
	for i, r := range rows {
		if r.Node.ID == id {
			return i
		}
	}
	return -1
}
