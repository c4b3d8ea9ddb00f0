package rangecover

import (
	"cmp"

	"github.com/alexhholmes/rangecover/internal/algo"
)

// node holds a sorted run of entries. A leaf has no children; an internal
// node has exactly len(keys)+1 child slots, any of which may be NoNode.
type node[K cmp.Ordered, V any] struct {
	keys     []K
	values   []V
	children []NodeID
	parent   NodeID // Back-reference for upward traversal, NoNode for the root
}

func (n *node[K, V]) isLeaf() bool {
	return len(n.children) == 0
}

// child returns the node in slot i, or NoNode for a leaf or an empty slot
func (n *node[K, V]) child(i int) NodeID {
	if n.isLeaf() {
		return NoNode
	}
	return n.children[i]
}

// insertEntry places key/value at index i. Internal nodes gain the child slot
// right of the new entry, holding right.
func (n *node[K, V]) insertEntry(i int, key K, value V, right NodeID) {
	if i < 0 || i > len(n.keys) {
		panic("insert index out of node bounds")
	}
	n.keys = algo.InsertAt(n.keys, i, key)
	n.values = algo.InsertAt(n.values, i, value)
	if !n.isLeaf() {
		n.children = algo.InsertAt(n.children, i+1, right)
	} else if right != NoNode {
		panic("leaf cannot adopt a child on insert")
	}
}

// growChildren turns a leaf into an internal node with empty child slots
func (n *node[K, V]) growChildren() {
	if !n.isLeaf() {
		return
	}
	n.children = make([]NodeID, len(n.keys)+1)
	for i := range n.children {
		n.children[i] = NoNode
	}
}
