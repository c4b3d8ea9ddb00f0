// Package rangecover implements a generalized multi-way search tree and the
// range-cover query built on it.
//
// A Tree keeps entries sorted inside nodes of up to MaxEntries keys. Every
// internal node has one child slot more than it has keys and each child's
// subtree lies strictly between the two keys around its slot. Positions
// returned by Search, First and SubtreeFindGT address a single entry and are
// invalidated by the next Insert.
//
// A CoverTree adds FindNodesInRange, which returns the distinct nodes holding
// keys inside an inclusive range, and ComputeCover, which greedily picks
// the fewest such nodes that together hold at least k in-range entries:
//
//	tree := rangecover.NewCoverTree[string, float64]()
//	for _, code := range []string{"AUD", "CAD", "EUR", "GBP", "USD"} {
//	    tree.Insert(code, 1.0)
//	}
//	cover, ok := tree.ComputeCover(3, "AUD", "GBP")
//	if !ok {
//	    // fewer than 3 keys in [AUD, GBP]
//	}
//	_ = cover.Nodes
//
// Nothing in this package locks. Serialize Insert against readers yourself.
package rangecover
