package rangecover

import (
	"cmp"
	"fmt"
)

// Check walks the whole tree and verifies its structural invariants: keys
// ascend within every node, every subtree lies strictly between the keys
// bracketing its slot, child slot counts match, parent links point back and
// every node is reachable exactly once.
func (t *Tree[K, V]) Check() error {
	if t.root == NoNode {
		if t.size != 0 || len(t.nodes) != 0 {
			return fmt.Errorf("%w: empty root with %d entries in %d nodes", ErrCorrupt, t.size, len(t.nodes))
		}
		return nil
	}
	if t.mustNode(t.root).parent != NoNode {
		return fmt.Errorf("%w: root %d has parent", ErrCorrupt, t.root)
	}

	c := checker[K, V]{tree: t, seen: make(map[NodeID]bool, len(t.nodes))}
	if err := c.walk(t.root, Unbounded[K](), Unbounded[K]()); err != nil {
		return err
	}
	if c.entries != t.size {
		return fmt.Errorf("%w: counted %d entries, tree reports %d", ErrCorrupt, c.entries, t.size)
	}
	if len(c.seen) != len(t.nodes) {
		return fmt.Errorf("%w: reached %d of %d nodes", ErrCorrupt, len(c.seen), len(t.nodes))
	}
	return nil
}

type checker[K cmp.Ordered, V any] struct {
	tree    *Tree[K, V]
	seen    map[NodeID]bool
	entries int
}

// walk verifies the subtree at id, whose keys must lie strictly inside (lo, hi)
func (c *checker[K, V]) walk(id NodeID, lo, hi Bound[K]) error {
	if id < 0 || int(id) >= len(c.tree.nodes) {
		return fmt.Errorf("%w: dangling node reference %d", ErrCorrupt, id)
	}
	if c.seen[id] {
		return fmt.Errorf("%w: node %d reachable twice", ErrCorrupt, id)
	}
	c.seen[id] = true

	n := c.tree.nodes[id]
	if len(n.keys) == 0 {
		return fmt.Errorf("%w: node %d has no entries", ErrCorrupt, id)
	}
	if len(n.values) != len(n.keys) {
		return fmt.Errorf("%w: node %d has %d keys but %d values", ErrCorrupt, id, len(n.keys), len(n.values))
	}
	if !n.isLeaf() && len(n.children) != len(n.keys)+1 {
		return fmt.Errorf("%w: node %d has %d keys but %d child slots", ErrCorrupt, id, len(n.keys), len(n.children))
	}

	for i, k := range n.keys {
		if i > 0 && !cmp.Less(n.keys[i-1], k) {
			return fmt.Errorf("%w: node %d keys not strictly ascending at %d", ErrCorrupt, id, i)
		}
		if l, ok := lo.Key(); ok && !cmp.Less(l, k) {
			return fmt.Errorf("%w: node %d key %v not above %v", ErrCorrupt, id, k, l)
		}
		if h, ok := hi.Key(); ok && !cmp.Less(k, h) {
			return fmt.Errorf("%w: node %d key %v not below %v", ErrCorrupt, id, k, h)
		}
	}
	c.entries += len(n.keys)

	for i, child := range n.children {
		if child == NoNode {
			continue
		}
		if int(child) < len(c.tree.nodes) && c.tree.nodes[child].parent != id {
			return fmt.Errorf("%w: node %d parent is %d, expected %d", ErrCorrupt, child, c.tree.nodes[child].parent, id)
		}
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = Inclusive(n.keys[i-1])
		}
		if i < len(n.keys) {
			childHi = Inclusive(n.keys[i])
		}
		if err := c.walk(child, childLo, childHi); err != nil {
			return err
		}
	}
	return nil
}
