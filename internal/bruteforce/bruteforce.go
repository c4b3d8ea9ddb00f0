// Package bruteforce computes optimal range covers by exhaustive search. It
// exists to measure how far the greedy solver strays from the optimum and is
// only practical for a handful of candidate nodes.
package bruteforce

import (
	"errors"
	"fmt"
)

// MaxCandidates bounds the number of nodes MinCover is willing to enumerate.
const MaxCandidates = 16

var ErrTooManyCandidates = errors.New("too many candidate nodes for exhaustive search")

// MinCover returns the size of the smallest subset of counts whose sum is at
// least k. Subsets are enumerated by increasing size so the first hit is
// optimal. ok is false when even the full set falls short of k.
func MinCover(counts []int, k int) (size int, ok bool, err error) {
	if k <= 0 {
		return 0, true, nil
	}
	if len(counts) > MaxCandidates {
		return 0, false, fmt.Errorf("%w: %d > %d", ErrTooManyCandidates, len(counts), MaxCandidates)
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total < k {
		return 0, false, nil
	}

	for size = 1; size < len(counts); size++ {
		if anySubsetReaches(counts, size, k) {
			return size, true, nil
		}
	}
	return len(counts), true, nil
}

// anySubsetReaches walks every size-element combination of counts in
// lexicographic index order.
func anySubsetReaches(counts []int, size, k int) bool {
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}

	n := len(counts)
	for {
		sum := 0
		for _, i := range idx {
			sum += counts[i]
		}
		if sum >= k {
			return true
		}

		// Advance to the next combination
		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			return false
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
