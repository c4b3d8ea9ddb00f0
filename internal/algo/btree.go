// Package algo contains algorithms used for searching and editing the entries
// of a multi-way search tree node.
package algo

import "cmp"

// Search returns the index of key in keys if present. Otherwise it returns the
// insertion point: the index of the first key greater than key, or len(keys).
func Search[K cmp.Ordered](keys []K, key K) (int, bool) {
	lo, hi := 0, len(keys)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch c := cmp.Compare(key, keys[mid]); {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return lo, false
}

// UpperBound returns the index of the first key strictly greater than key,
// looking only at keys[start:]. Returns len(keys) if there is none.
func UpperBound[K cmp.Ordered](keys []K, key K, start int) int {
	lo, hi := start, len(keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cmp.Less(key, keys[mid]) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// LowerBound returns the index of the first key >= key
func LowerBound[K cmp.Ordered](keys []K, key K) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cmp.Less(keys[mid], key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// CountRange returns how many keys k satisfy lo <= k <= hi
func CountRange[K cmp.Ordered](keys []K, lo, hi K) int {
	if cmp.Less(hi, lo) {
		return 0
	}
	return UpperBound(keys, hi, 0) - LowerBound(keys, lo)
}

// InsertAt inserts value at index in slice
func InsertAt[T any](slice []T, index int, value T) []T {
	var zero T
	slice = append(slice, zero)
	copy(slice[index+1:], slice[index:])
	slice[index] = value
	return slice
}

// SplitHint guides how to bias the split point
type SplitHint int

const (
	SplitBalanced  SplitHint = iota // Default: 50/50
	SplitLeftBias                   // Left light: 10/90 (descending inserts)
	SplitRightBias                  // Right light: 90/10 (ascending inserts)
)

// SplitPoint contains split calculation results. The key at Mid moves up into
// the parent; keys before it stay left, keys after it move right.
type SplitPoint struct {
	Mid        int
	LeftCount  int
	RightCount int
}

// DetectHint infers the insert pattern from where the last key landed in a
// node that now holds n keys.
func DetectHint(n, insertIdx int) SplitHint {
	switch {
	case insertIdx >= n-1:
		return SplitRightBias
	case insertIdx <= 0:
		return SplitLeftBias
	default:
		return SplitBalanced
	}
}

// CalculateSplitPoint determines the separator position for an overflowing
// node holding n keys. Both halves keep at least one key.
func CalculateSplitPoint(n int, hint SplitHint) SplitPoint {
	if n < 3 {
		panic("cannot split node with fewer than 3 keys")
	}

	var mid int
	switch hint {
	case SplitRightBias:
		// Keep left node nearly full, right node minimal
		mid = int(float64(n) * 0.9)
	case SplitLeftBias:
		// Keep right node nearly full, left node minimal
		mid = int(float64(n) * 0.1)
	default:
		mid = n / 2
	}

	// Final bounds check so neither side ends up empty
	mid = max(1, min(mid, n-2))

	return SplitPoint{
		Mid:        mid,
		LeftCount:  mid,
		RightCount: n - mid - 1,
	}
}
