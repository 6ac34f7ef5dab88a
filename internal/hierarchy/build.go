package hierarchy

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultFallback labels the group for records without a usable key when a
// Level does not set its own.
const DefaultFallback = "Unassigned"

// idSeparator joins key segments into group ids, e.g. "FCI 6/Beagle". A
// separator or backslash inside a key is escaped with a backslash, and a
// fallback group's segment starts with fallbackMarker, so every id decodes to
// exactly one path.
const (
	idSeparator    = "/"
	fallbackMarker = `\!`
)

var keyEscaper = strings.NewReplacer(`\`, `\\`, idSeparator, `\`+idSeparator)

// segment returns the id segment of one group key.
func segment(key string, fallback bool) string {
	if fallback {
		return fallbackMarker + keyEscaper.Replace(key)
	}
	return keyEscaper.Replace(key)
}

// Level is one grouping level of the tree.
type Level[T any] struct {
	// Name identifies the level in group payloads, e.g. "class".
	Name string
	// Key extracts the grouping value from a record.
	Key func(T) string
	// Known reports whether a non-empty key is recognised. Nil accepts all.
	Known func(string) bool
	// Label turns a key into the display label. Nil uses the key itself.
	Label func(string) string
	// Fallback labels the group collecting records with a missing or
	// unrecognised key.
	Fallback string
}

// Leaf extracts the identity and display name of a terminal record.
type Leaf[T any] struct {
	ID    func(T) string
	Label func(T) string
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	collator Collator
}

// WithCollator sets the collation used to order groups by label.
func WithCollator(c Collator) BuildOption {
	return func(cfg *buildConfig) {
		cfg.collator = c
	}
}

// Build groups records into a tree, one level of groups per entry in levels
// followed by one leaf per record.
//
// Groups at every level are sorted by label; leaves keep the relative order
// of records. Records whose key is missing or not Known are collected in the
// level's fallback group rather than dropped. With no levels the result is a
// flat list of leaves. Empty input yields an empty tree.
func Build[T any](records []T, leaf Leaf[T], levels []Level[T], opts ...BuildOption) []*Node {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	b := &builder[T]{
		leaf:    leaf,
		levels:  levels,
		compare: cfg.collator.comparer(),
	}
	roots := b.build(records, "", 0)
	uniqueLeafIDs(roots)
	return roots
}

type builder[T any] struct {
	leaf    Leaf[T]
	levels  []Level[T]
	compare func(a, b string) int
}

type bucketKey struct {
	key      string
	fallback bool
}

type bucket[T any] struct {
	key      string
	fallback bool
	records  []T
}

func (b *builder[T]) build(records []T, parentID string, depth int) []*Node {
	if depth == len(b.levels) {
		return b.leaves(records)
	}
	level := b.levels[depth]

	// First sighting of a key creates its bucket; bucket order is discarded
	// by the label sort below but keeps equal labels stable. A real key equal
	// to the fallback label is a different bucket.
	index := make(map[bucketKey]*bucket[T])
	var order []*bucket[T]
	for _, rec := range records {
		key, fallback := level.keyOf(rec)
		bk, ok := index[bucketKey{key, fallback}]
		if !ok {
			bk = &bucket[T]{key: key, fallback: fallback}
			index[bucketKey{key, fallback}] = bk
			order = append(order, bk)
		}
		bk.records = append(bk.records, rec)
	}

	groups := make([]*Node, 0, len(order))
	for _, bk := range order {
		id := segment(bk.key, bk.fallback)
		if parentID != "" {
			id = parentID + idSeparator + id
		}
		children := b.build(bk.records, id, depth+1)
		groups = append(groups, &Node{
			ID:       id,
			Kind:     KindGroup,
			Label:    level.labelOf(bk.key, bk.fallback),
			Children: children,
			Expanded: true,
			Count:    sumCounts(children),
			Payload:  GroupKey{Level: level.Name, Value: bk.key, Fallback: bk.fallback},
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return b.compare(groups[i].Label, groups[j].Label) < 0
	})
	return groups
}

// leaves builds one node per record, carrying the record's own id.
func (b *builder[T]) leaves(records []T) []*Node {
	nodes := make([]*Node, 0, len(records))
	for _, rec := range records {
		nodes = append(nodes, &Node{
			ID:       b.leaf.ID(rec),
			Kind:     KindLeaf,
			Label:    b.leaf.Label(rec),
			Expanded: true,
			Count:    1,
			Payload:  rec,
		})
	}
	return nodes
}

// uniqueLeafIDs suffixes "#n" onto any leaf id already taken by a group or
// by an earlier leaf in pre-order, so ids are unique across the whole tree.
func uniqueLeafIDs(roots []*Node) {
	taken := make(map[string]bool)
	Walk(roots, func(n *Node, _ Location) Action {
		if n.Kind == KindGroup {
			taken[n.ID] = true
		}
		return Continue
	})
	Walk(roots, func(n *Node, _ Location) Action {
		if n.Kind != KindLeaf {
			return Continue
		}
		id := n.ID
		for i := 2; taken[id]; i++ {
			id = n.ID + "#" + strconv.Itoa(i)
		}
		n.ID = id
		taken[id] = true
		return Continue
	})
}

func (l Level[T]) fallbackLabel() string {
	if l.Fallback != "" {
		return l.Fallback
	}
	return DefaultFallback
}

// keyOf returns the trimmed key of rec, or the fallback label when the key is
// empty or unrecognised.
func (l Level[T]) keyOf(rec T) (string, bool) {
	if l.Key == nil {
		return l.fallbackLabel(), true
	}
	key := strings.TrimSpace(l.Key(rec))
	if key == "" {
		return l.fallbackLabel(), true
	}
	if l.Known != nil && !l.Known(key) {
		return l.fallbackLabel(), true
	}
	return key, false
}

func (l Level[T]) labelOf(key string, fallback bool) string {
	if fallback || l.Label == nil {
		return key
	}
	return l.Label(key)
}
