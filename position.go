package rangecover

import "cmp"

// NodeID addresses a node inside the tree's node arena. IDs are stable for
// the lifetime of the tree since nodes are never freed.
type NodeID int32

// NoNode marks an absent node: an empty child slot, the parent of the root,
// or the node of an invalid Position.
const NoNode NodeID = -1

// Position identifies one entry: the Index-th key of Node. A Position is only
// meaningful until the next Insert.
type Position struct {
	Node  NodeID
	Index int
}

var nowhere = Position{Node: NoNode}

// Valid reports whether p refers to a node
func (p Position) Valid() bool { return p.Node != NoNode }

// Bound is one end of an inclusive key range. The zero Bound is unbounded.
type Bound[K cmp.Ordered] struct {
	key K
	set bool
}

// Inclusive returns a bound that admits key itself
func Inclusive[K cmp.Ordered](key K) Bound[K] {
	return Bound[K]{key: key, set: true}
}

// Unbounded returns a bound that admits every key
func Unbounded[K cmp.Ordered]() Bound[K] {
	return Bound[K]{}
}

// Key returns the bounding key. ok is false for an unbounded end.
func (b Bound[K]) Key() (key K, ok bool) {
	return b.key, b.set
}
