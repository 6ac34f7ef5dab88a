// Package hierarchy groups flat registration records into a multi-level tree
// and provides navigation operations over immutable snapshots of that tree.
//
// A tree is a []*Node of root nodes. Nodes are never mutated once built:
// every operation that changes expansion state returns a new root slice, and
// only the nodes on the path from a root to a changed node are reallocated.
// Untouched subtrees are shared by pointer between the old and new snapshot.
package hierarchy

// Kind distinguishes aggregation nodes from terminal entries.
type Kind int

const (
	KindGroup Kind = iota // Aggregation level, e.g. a dog class
	KindLeaf              // One registered dog
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// GroupKey is the payload carried by group nodes.
type GroupKey struct {
	Level    string // Level name, e.g. "class"
	Value    string // Normalized key value, or the fallback label
	Fallback bool   // True when the records had no usable key
}

// Node is one entry of a hierarchy. Treat it as read-only.
type Node struct {
	ID       string
	Kind     Kind
	Label    string
	Children []*Node
	Expanded bool
	Count    int // Leaf descendants for groups, always 1 for leaves
	Payload  any // GroupKey for groups, the source record for leaves
}

// IsGroup reports whether n aggregates other nodes.
func (n *Node) IsGroup() bool {
	return n.Kind == KindGroup
}

// HasChildren reports whether n has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// withExpanded returns n itself when the state already matches, otherwise a
// shallow copy with the new state. Children are shared with n.
func (n *Node) withExpanded(expanded bool) *Node {
	if n.Expanded == expanded {
		return n
	}
	c := *n
	c.Expanded = expanded
	return &c
}

func sumCounts(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		total += n.Count
	}
	return total
}
