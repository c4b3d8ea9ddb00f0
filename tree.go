package rangecover

import (
	"cmp"
	"fmt"

	"github.com/alexhholmes/rangecover/internal/algo"
)

// Tree is a multi-way search tree mapping ordered keys to values. Nodes live
// in an arena owned by the tree and refer to each other by NodeID.
//
// Tree does no locking. Callers must serialize Insert against every other
// method.
type Tree[K cmp.Ordered, V any] struct {
	nodes   []*node[K, V]
	root    NodeID
	size    int
	version uint64 // Bumped on every Insert
	opts    Options
}

// New creates an empty tree
func New[K cmp.Ordered, V any](opts ...Option) *Tree[K, V] {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()

	return &Tree[K, V]{
		root: NoNode,
		opts: o,
	}
}

// Len returns the number of entries
func (t *Tree[K, V]) Len() int { return t.size }

// NodeCount returns the number of nodes
func (t *Tree[K, V]) NodeCount() int { return len(t.nodes) }

// Root returns the root node, NoNode for an empty tree
func (t *Tree[K, V]) Root() NodeID { return t.root }

// Version changes every time the tree is modified
func (t *Tree[K, V]) Version() uint64 { return t.version }

// Strategy returns the configured insert strategy
func (t *Tree[K, V]) Strategy() Strategy { return t.opts.strategy }

// MaxEntries returns the configured node capacity
func (t *Tree[K, V]) MaxEntries() int { return t.opts.maxEntries }

func (t *Tree[K, V]) mustNode(id NodeID) *node[K, V] {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("node %d out of range [0, %d)", id, len(t.nodes)))
	}
	return t.nodes[id]
}

func (t *Tree[K, V]) newNode(parent NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, &node[K, V]{parent: parent})
	return id
}

// Keys returns a copy of the keys held by node id
func (t *Tree[K, V]) Keys(id NodeID) []K {
	return append([]K(nil), t.mustNode(id).keys...)
}

// Parent returns the parent of node id, NoNode for the root
func (t *Tree[K, V]) Parent(id NodeID) NodeID {
	return t.mustNode(id).parent
}

// Children returns a copy of the child slots of node id. Empty slots are
// NoNode; a leaf has none.
func (t *Tree[K, V]) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), t.mustNode(id).children...)
}

// IsLeaf reports whether node id has no child slots
func (t *Tree[K, V]) IsLeaf(id NodeID) bool {
	return t.mustNode(id).isLeaf()
}

// Key returns the key at p
func (t *Tree[K, V]) Key(p Position) K {
	return t.mustNode(p.Node).keys[p.Index]
}

// Value returns the value at p
func (t *Tree[K, V]) Value(p Position) V {
	return t.mustNode(p.Node).values[p.Index]
}

// Search descends from the root looking for key. It returns the deepest node
// visited and, within it, the index of key on a match or the index of the
// first entry greater than key otherwise (len(keys) if there is none). On an
// empty tree the Position is invalid.
func (t *Tree[K, V]) Search(key K) (bool, Position) {
	if t.root == NoNode {
		return false, nowhere
	}

	id := t.root
	for {
		n := t.nodes[id]
		i, found := algo.Search(n.keys, key)
		if found {
			return true, Position{Node: id, Index: i}
		}
		next := n.child(i)
		if next == NoNode {
			return false, Position{Node: id, Index: i}
		}
		id = next
	}
}

// Get returns the value stored under key
func (t *Tree[K, V]) Get(key K) (V, bool) {
	found, p := t.Search(key)
	if !found {
		var zero V
		return zero, false
	}
	return t.Value(p), true
}

// Has reports whether key is stored in the tree
func (t *Tree[K, V]) Has(key K) bool {
	found, _ := t.Search(key)
	return found
}

// Insert stores value under key and returns the entry's position. An existing
// key has its value replaced in place.
func (t *Tree[K, V]) Insert(key K, value V) Position {
	t.version++

	found, p := t.Search(key)
	if found {
		t.nodes[p.Node].values[p.Index] = value
		return p
	}

	t.size++
	if !p.Valid() {
		t.root = t.newNode(NoNode)
		n := t.nodes[t.root]
		n.keys = append(n.keys, key)
		n.values = append(n.values, value)
		return Position{Node: t.root, Index: 0}
	}

	if t.opts.strategy == SplitFull {
		return t.insertSplit(p, key, value)
	}
	return t.insertGrow(p, key, value)
}

// insertGrow places a new key at the landing point of a failed Search. The
// child slot at p.Index is known to be empty.
func (t *Tree[K, V]) insertGrow(p Position, key K, value V) Position {
	n := t.nodes[p.Node]
	if len(n.keys) < t.opts.maxEntries {
		n.insertEntry(p.Index, key, value, NoNode)
		return p
	}

	// Full: hang a new single-entry node in the empty slot
	child := t.newNode(p.Node)
	c := t.nodes[child]
	c.keys = append(c.keys, key)
	c.values = append(c.values, value)

	n.growChildren()
	n.children[p.Index] = child
	return Position{Node: child, Index: 0}
}

// insertSplit adds key to the leaf at p, splitting overflowing nodes upward.
func (t *Tree[K, V]) insertSplit(p Position, key K, value V) Position {
	n := t.nodes[p.Node]
	if !n.isLeaf() {
		panic("split insert landed on an internal node")
	}
	n.insertEntry(p.Index, key, value, NoNode)
	if len(n.keys) <= t.opts.maxEntries {
		return p
	}

	t.split(p.Node, p.Index)
	_, p = t.Search(key)
	return p
}

// split divides node id and its overflowing ancestors. insertIdx is where the
// most recent entry landed in id.
func (t *Tree[K, V]) split(id NodeID, insertIdx int) {
	for {
		n := t.nodes[id]
		if len(n.keys) <= t.opts.maxEntries {
			return
		}

		sp := algo.CalculateSplitPoint(len(n.keys), algo.DetectHint(len(n.keys), insertIdx))
		sepKey, sepVal := n.keys[sp.Mid], n.values[sp.Mid]

		right := t.newNode(n.parent)
		r := t.nodes[right]
		r.keys = append(r.keys, n.keys[sp.Mid+1:]...)
		r.values = append(r.values, n.values[sp.Mid+1:]...)
		if !n.isLeaf() {
			r.children = append(r.children, n.children[sp.Mid+1:]...)
			for _, c := range r.children {
				if c != NoNode {
					t.nodes[c].parent = right
				}
			}
			clear(n.children[sp.Mid+1:])
			n.children = n.children[:sp.Mid+1]
		}
		clear(n.keys[sp.Mid:])
		clear(n.values[sp.Mid:])
		n.keys = n.keys[:sp.Mid]
		n.values = n.values[:sp.Mid]

		if n.parent == NoNode {
			root := t.newNode(NoNode)
			rt := t.nodes[root]
			rt.keys = []K{sepKey}
			rt.values = []V{sepVal}
			rt.children = []NodeID{id, right}
			n.parent = root
			r.parent = root
			t.root = root
			t.opts.logger.Info("root split", "root", root, "nodes", len(t.nodes))
			return
		}

		parent := n.parent
		slot := t.childSlot(parent, id)
		t.nodes[parent].insertEntry(slot, sepKey, sepVal, right)
		id, insertIdx = parent, slot
	}
}

// childSlot returns the index of child within parent's child slots
func (t *Tree[K, V]) childSlot(parent, child NodeID) int {
	p := t.mustNode(parent)
	c := t.mustNode(child)
	if len(c.keys) == 0 {
		panic(fmt.Sprintf("node %d has no entries", child))
	}
	slot := algo.UpperBound(p.keys, c.keys[0], 0)
	if p.child(slot) != child {
		panic(fmt.Sprintf("node %d is not a child of %d", child, parent))
	}
	return slot
}

// First returns the position of the smallest key
func (t *Tree[K, V]) First() (Position, error) {
	if t.root == NoNode {
		return nowhere, ErrEmptyTree
	}

	id := t.root
	for {
		next := t.nodes[id].child(0)
		if next == NoNode {
			return Position{Node: id, Index: 0}, nil
		}
		id = next
	}
}

// Last returns the position of the largest key
func (t *Tree[K, V]) Last() (Position, error) {
	if t.root == NoNode {
		return nowhere, ErrEmptyTree
	}

	id := t.root
	for {
		n := t.nodes[id]
		next := n.child(len(n.keys))
		if next == NoNode {
			return Position{Node: id, Index: len(n.keys) - 1}, nil
		}
		id = next
	}
}

// SubtreeFindGT returns the position of the smallest key in the tree that is
// strictly greater than key. The search starts at entry index start of node
// id: entries before start are assumed to be <= key. It continues into the
// child slot where key falls, then climbs through parent links until an
// ancestor holds a greater entry. ok is false when no key exceeds key.
func (t *Tree[K, V]) SubtreeFindGT(id NodeID, key K, start int) (Position, bool) {
	n := t.mustNode(id)
	if start < 0 || start > len(n.keys) {
		panic(fmt.Sprintf("start index %d out of node bounds [0, %d]", start, len(n.keys)))
	}

	from := NoNode
	for {
		j := algo.UpperBound(n.keys, key, start)
		if c := n.child(j); c != NoNode && c != from {
			if p, ok := t.minGreater(c, key); ok {
				return p, true
			}
		}
		if j < len(n.keys) {
			return Position{Node: id, Index: j}, true
		}

		if n.parent == NoNode {
			return nowhere, false
		}
		from, id = id, n.parent
		n = t.nodes[id]
		start = t.childSlot(id, from)
	}
}

// minGreater returns the smallest entry greater than key within the subtree
// rooted at id.
func (t *Tree[K, V]) minGreater(id NodeID, key K) (Position, bool) {
	best, found := nowhere, false
	for id != NoNode {
		n := t.nodes[id]
		j := algo.UpperBound(n.keys, key, 0)
		if j < len(n.keys) {
			best, found = Position{Node: id, Index: j}, true
		}
		id = n.child(j)
	}
	return best, found
}

// Next returns the entry following p in key order
func (t *Tree[K, V]) Next(p Position) (Position, bool) {
	return t.SubtreeFindGT(p.Node, t.Key(p), p.Index+1)
}

// Ascend calls fn for every entry in ascending key order until fn returns
// false.
func (t *Tree[K, V]) Ascend(fn func(key K, value V) bool) {
	p, err := t.First()
	if err != nil {
		return
	}
	for ok := true; ok; p, ok = t.Next(p) {
		if !fn(t.Key(p), t.Value(p)) {
			return
		}
	}
}

// Height returns the number of nodes on the longest root-to-leaf path
func (t *Tree[K, V]) Height() int {
	if t.root == NoNode {
		return 0
	}
	return t.height(t.root)
}

func (t *Tree[K, V]) height(id NodeID) int {
	h := 0
	for _, c := range t.nodes[id].children {
		if c != NoNode {
			h = max(h, t.height(c))
		}
	}
	return h + 1
}
