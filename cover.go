package rangecover

import (
	"cmp"

	"github.com/alexhholmes/rangecover/internal/algo"
	"github.com/alexhholmes/rangecover/internal/pq"
)

// CoverTree is a Tree that answers range-cover queries: which nodes must be
// read to collect at least k entries from a key range.
type CoverTree[K cmp.Ordered, V any] struct {
	*Tree[K, V]
	cache *rangeCache[K]
}

// NewCoverTree creates an empty cover tree
func NewCoverTree[K cmp.Ordered, V any](opts ...Option) *CoverTree[K, V] {
	t := &CoverTree[K, V]{Tree: New[K, V](opts...)}

	if size := t.opts.rangeCacheSize; size > 0 {
		cache, err := newRangeCache[K](uint32(size))
		if err != nil {
			t.opts.logger.Warn("range cache disabled", "size", size, "error", err)
		} else {
			t.cache = cache
		}
	}
	return t
}

// FindNodesInRange returns the distinct nodes holding at least one key k with
// start <= k <= stop, ordered by the first such key each node holds. Unbounded
// ends are open.
func (t *CoverTree[K, V]) FindNodesInRange(start, stop Bound[K]) []NodeID {
	if t.cache != nil {
		if nodes, ok := t.cache.get(start, stop, t.version); ok {
			return nodes
		}
	}

	nodes := t.findNodesInRange(start, stop)
	if t.cache != nil {
		t.cache.put(start, stop, t.version, nodes)
	}
	return nodes
}

func (t *CoverTree[K, V]) findNodesInRange(start, stop Bound[K]) []NodeID {
	if t.root == NoNode {
		return nil
	}
	startKey, hasStart := start.Key()
	stopKey, hasStop := stop.Key()
	if hasStart && hasStop && cmp.Less(stopKey, startKey) {
		return nil
	}

	var p Position
	ok := true
	if !hasStart {
		p, _ = t.First()
	} else {
		// Exact match wins, otherwise take the successor of start
		var found bool
		found, p = t.Search(startKey)
		if !found {
			p, ok = t.SubtreeFindGT(p.Node, startKey, p.Index)
		}
	}

	var nodes []NodeID
	seen := make(map[NodeID]struct{})
	for ok {
		key := t.Key(p)
		if hasStop && cmp.Less(stopKey, key) {
			break
		}
		if _, dup := seen[p.Node]; !dup {
			seen[p.Node] = struct{}{}
			nodes = append(nodes, p.Node)
		}
		p, ok = t.SubtreeFindGT(p.Node, key, p.Index+1)
	}
	return nodes
}

// UsableCount returns how many keys of node id lie in [start, stop]
func (t *CoverTree[K, V]) UsableCount(id NodeID, start, stop K) int {
	return algo.CountRange(t.mustNode(id).keys, start, stop)
}

// Cover is the result of a range-cover query.
type Cover struct {
	Nodes      []NodeID // Selected nodes, in the order the solver picked them
	Counts     []int    // Usable entries of each selected node
	Usable     int      // Sum of Counts
	Candidates int      // Nodes touched by the range
}

type candidate[K cmp.Ordered] struct {
	usable int
	minKey K
	node   NodeID
}

// ComputeCover greedily selects nodes holding at least k entries with keys in
// [start, stop], taking the node with the most usable entries first. Nodes
// with equal counts are taken in ascending order of their smallest key.
//
// A non-positive k is satisfied by the empty cover. ok is false when the
// range holds fewer than k entries in total.
func (t *CoverTree[K, V]) ComputeCover(k int, start, stop K) (Cover, bool) {
	if k <= 0 {
		return Cover{}, true
	}

	nodes := t.FindNodesInRange(Inclusive(start), Inclusive(stop))

	queue := pq.New(func(a, b candidate[K]) bool {
		if a.usable != b.usable {
			return a.usable < b.usable
		}
		return cmp.Less(b.minKey, a.minKey)
	})
	total := 0
	for _, id := range nodes {
		usable := t.UsableCount(id, start, stop)
		total += usable
		queue.Push(candidate[K]{usable: usable, minKey: t.nodes[id].keys[0], node: id})
	}

	if total < k {
		t.opts.logger.Info("no range cover exists", "k", k, "usable", total, "candidates", len(nodes))
		return Cover{}, false
	}

	cover := Cover{Candidates: len(nodes)}
	for remaining := k; remaining > 0; {
		c, ok := queue.PopMax()
		if !ok {
			break
		}
		cover.Nodes = append(cover.Nodes, c.node)
		cover.Counts = append(cover.Counts, c.usable)
		cover.Usable += c.usable
		remaining -= c.usable
	}
	return cover, true
}
