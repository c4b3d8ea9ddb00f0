package rangecover

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/rangecover/internal/bruteforce"
)

func scenarioTree(t *testing.T, opts ...Option) *CoverTree[string, int] {
	t.Helper()
	tree := NewCoverTree[string, int](opts...)
	for i, k := range scenarioKeys {
		tree.Insert(k, i)
	}
	require.NoError(t, tree.Check())
	return tree
}

// scanNodes finds the nodes holding a key in [start, stop] by looking at
// every node in the arena.
func scanNodes[K cmp.Ordered, V any](tree *CoverTree[K, V], start, stop Bound[K]) []NodeID {
	var nodes []NodeID
	for id := NodeID(0); int(id) < tree.NodeCount(); id++ {
		for _, k := range tree.Keys(id) {
			if lo, ok := start.Key(); ok && cmp.Less(k, lo) {
				continue
			}
			if hi, ok := stop.Key(); ok && cmp.Less(hi, k) {
				continue
			}
			nodes = append(nodes, id)
			break
		}
	}
	return nodes
}

func keysOf(tree *CoverTree[string, int], nodes []NodeID) []string {
	var keys []string
	for _, id := range nodes {
		keys = append(keys, tree.Keys(id)...)
	}
	return keys
}

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, level+": "+msg)
}

func (l *recordingLogger) Error(msg string, _ ...any) { l.record("error", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("info", msg) }

// Scenario Tests

func TestCoverScenario(t *testing.T) {
	t.Parallel()

	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			t.Parallel()

			tree := scenarioTree(t, WithStrategy(s))

			nodes := tree.FindNodesInRange(Inclusive("AUD"), Inclusive("GBP"))
			assert.ElementsMatch(t, scanNodes(tree, Inclusive("AUD"), Inclusive("GBP")), nodes)

			// Every in-range key is held by a returned node
			held := map[string]bool{}
			for _, k := range keysOf(tree, nodes) {
				held[k] = true
			}
			for _, k := range []string{"AUD", "BBB", "CAD", "EUR", "GBP"} {
				assert.True(t, held[k], k)
			}

			cover, ok := tree.ComputeCover(3, "AUD", "GBP")
			require.True(t, ok)
			assert.NotEmpty(t, cover.Nodes)
			assert.GreaterOrEqual(t, cover.Usable, 3)
			assert.Equal(t, len(nodes), cover.Candidates)

			_, ok = tree.ComputeCover(10, "AUD", "GBP")
			assert.False(t, ok, "only 5 keys in range")

			cover, ok = tree.ComputeCover(0, "AUD", "GBP")
			assert.True(t, ok)
			assert.Empty(t, cover.Nodes)
		})
	}
}

func TestCoverScenarioGrowLeaves(t *testing.T) {
	t.Parallel()

	tree := scenarioTree(t)
	root := tree.Root()
	mid := tree.Children(root)[3]

	// Root holds AUD and BBB, the middle node holds CAD, EUR and GBP
	nodes := tree.FindNodesInRange(Inclusive("AUD"), Inclusive("GBP"))
	assert.Equal(t, []NodeID{root, mid}, nodes)
	assert.Equal(t, 2, tree.UsableCount(root, "AUD", "GBP"))
	assert.Equal(t, 3, tree.UsableCount(mid, "AUD", "GBP"))

	cover, ok := tree.ComputeCover(3, "AUD", "GBP")
	require.True(t, ok)
	assert.Equal(t, Cover{Nodes: []NodeID{mid}, Counts: []int{3}, Usable: 3, Candidates: 2}, cover)

	cover, ok = tree.ComputeCover(4, "AUD", "GBP")
	require.True(t, ok)
	assert.Equal(t, []NodeID{mid, root}, cover.Nodes)
	assert.Equal(t, 5, cover.Usable)
}

func TestFindNodesInRangeEdges(t *testing.T) {
	t.Parallel()

	empty := NewCoverTree[string, int]()
	assert.Empty(t, empty.FindNodesInRange(Unbounded[string](), Unbounded[string]()))
	_, ok := empty.ComputeCover(1, "A", "Z")
	assert.False(t, ok)

	tree := scenarioTree(t)
	assert.Empty(t, tree.FindNodesInRange(Inclusive("GBP"), Inclusive("AUD")), "start > stop")

	single := tree.FindNodesInRange(Inclusive("EUR"), Inclusive("EUR"))
	require.Len(t, single, 1)
	assert.Contains(t, tree.Keys(single[0]), "EUR")

	assert.Empty(t, tree.FindNodesInRange(Inclusive("DDD"), Inclusive("DZZ")), "no key in gap")
	assert.Empty(t, tree.FindNodesInRange(Inclusive("ZZZ"), Unbounded[string]()), "start past maximum")

	all := tree.FindNodesInRange(Unbounded[string](), Unbounded[string]())
	assert.Len(t, all, tree.NodeCount())

	// Absent start begins at the successor
	nodes := tree.FindNodesInRange(Inclusive("BAA"), Inclusive("BBB"))
	assert.Equal(t, []NodeID{tree.Root()}, nodes)
}

// Property Tests

func TestFindNodesInRangeMatchesScan(t *testing.T) {
	t.Parallel()

	for _, s := range strategies {
		for _, maxEntries := range []int{1, 2, 3, 4} {
			t.Run(fmt.Sprintf("%s/%d", s, maxEntries), func(t *testing.T) {
				t.Parallel()

				r := rand.New(rand.NewPCG(uint64(maxEntries), 99))
				tree := NewCoverTree[int, int](WithStrategy(s), WithMaxEntries(maxEntries))
				for _, k := range shuffled(r, 40) {
					tree.Insert(k, k)
				}
				require.NoError(t, tree.Check())

				bounds := []Bound[int]{Unbounded[int]()}
				for k := -1; k <= 80; k++ {
					bounds = append(bounds, Inclusive(k))
				}

				for _, start := range bounds {
					for _, stop := range bounds {
						got := tree.FindNodesInRange(start, stop)
						want := scanNodes(tree, start, stop)
						require.ElementsMatch(t, want, got, "start=%v stop=%v", start, stop)

						// Nodes come back in order of their first in-range key
						seen := map[NodeID]bool{}
						var order []NodeID
						tree.Ascend(func(key, _ int) bool {
							if lo, ok := start.Key(); ok && key < lo {
								return true
							}
							if hi, ok := stop.Key(); ok && key > hi {
								return false
							}
							_, p := tree.Search(key)
							if !seen[p.Node] {
								seen[p.Node] = true
								order = append(order, p.Node)
							}
							return true
						})
						require.Equal(t, order, got)
					}
				}
			})
		}
	}
}

func TestComputeCoverAgainstBruteForce(t *testing.T) {
	t.Parallel()

	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			t.Parallel()

			r := rand.New(rand.NewPCG(5, uint64(s)))
			checked := 0
			for trial := 0; trial < 200; trial++ {
				n := 5 + r.IntN(26)
				tree := NewCoverTree[int, int](WithStrategy(s), WithMaxEntries(1+r.IntN(4)))
				oracle := btree.NewOrderedG[int](8)
				keys := shuffled(r, n)
				for _, k := range keys {
					tree.Insert(k, k)
					oracle.ReplaceOrInsert(k)
				}

				start := keys[r.IntN(n)]
				stop := keys[r.IntN(n)]
				start, stop = min(start, stop), max(start, stop)
				k := 1 + r.IntN(n+2)

				available := 0
				oracle.AscendRange(start, stop+1, func(int) bool {
					available++
					return true
				})

				nodes := tree.FindNodesInRange(Inclusive(start), Inclusive(stop))
				counts := make([]int, len(nodes))
				for i, id := range nodes {
					counts[i] = tree.UsableCount(id, start, stop)
				}

				cover, ok := tree.ComputeCover(k, start, stop)
				if !ok {
					assert.Less(t, available, k, "infeasible only when the range is short")
					continue
				}
				require.GreaterOrEqual(t, available, k)

				// Feasibility: selected nodes are distinct and carry k usable keys
				sum := 0
				picked := map[NodeID]bool{}
				for i, id := range cover.Nodes {
					require.False(t, picked[id], "node picked twice")
					picked[id] = true
					assert.Equal(t, tree.UsableCount(id, start, stop), cover.Counts[i])
					sum += cover.Counts[i]
				}
				assert.Equal(t, sum, cover.Usable)
				assert.GreaterOrEqual(t, sum, k)

				if len(counts) > bruteforce.MaxCandidates {
					continue
				}
				optimal, feasible, err := bruteforce.MinCover(counts, k)
				require.NoError(t, err)
				require.True(t, feasible)
				assert.GreaterOrEqual(t, len(cover.Nodes), optimal)
				checked++
			}
			assert.Positive(t, checked)
		})
	}
}

func TestComputeCoverTieBreak(t *testing.T) {
	t.Parallel()

	// Three nodes with two keys each: [M N] at the root, [A B] left, [Y Z] right
	tree := NewCoverTree[string, int](WithMaxEntries(2))
	for i, k := range []string{"M", "N", "A", "B", "Y", "Z"} {
		tree.Insert(k, i)
	}
	require.NoError(t, tree.Check())
	root := tree.Root()
	left := tree.Children(root)[0]
	right := tree.Children(root)[2]

	cover, ok := tree.ComputeCover(2, "A", "Z")
	require.True(t, ok)
	assert.Equal(t, []NodeID{left}, cover.Nodes)

	cover, ok = tree.ComputeCover(5, "A", "Z")
	require.True(t, ok)
	assert.Equal(t, []NodeID{left, root, right}, cover.Nodes)

	// Repeated runs pick identically
	for i := 0; i < 10; i++ {
		again, _ := tree.ComputeCover(5, "A", "Z")
		assert.Equal(t, cover, again)
	}
}

func TestComputeCoverNegativeK(t *testing.T) {
	t.Parallel()

	tree := scenarioTree(t)
	cover, ok := tree.ComputeCover(-5, "AAA", "USD")
	assert.True(t, ok)
	assert.Equal(t, Cover{}, cover)
}

func TestComputeCoverLogsInfeasible(t *testing.T) {
	t.Parallel()

	log := &recordingLogger{}
	tree := scenarioTree(t, WithLogger(log))
	_, ok := tree.ComputeCover(6, "AUD", "GBP")
	assert.False(t, ok)
	assert.Equal(t, []string{"info: no range cover exists"}, log.msgs)
}

// Cache Tests

func TestRangeCache(t *testing.T) {
	t.Parallel()

	tree := scenarioTree(t, WithRangeCache(8))
	require.NotNil(t, tree.cache)

	first := tree.FindNodesInRange(Inclusive("AUD"), Inclusive("GBP"))
	again := tree.FindNodesInRange(Inclusive("AUD"), Inclusive("GBP"))
	assert.Equal(t, first, again)
	assert.Equal(t, uint64(1), tree.cache.hits)
	assert.Equal(t, uint64(1), tree.cache.misses)

	// Results handed out are copies
	again[0] = NodeID(42)
	assert.Equal(t, first, tree.FindNodesInRange(Inclusive("AUD"), Inclusive("GBP")))

	// Inserting invalidates the cached result
	tree.Insert("FFF", 0)
	tree.Insert("FFG", 0)
	tree.Insert("FFH", 0)
	after := tree.FindNodesInRange(Inclusive("AUD"), Inclusive("GBP"))
	assert.ElementsMatch(t, scanNodes(tree, Inclusive("AUD"), Inclusive("GBP")), after)
	assert.Equal(t, uint64(2), tree.cache.misses)

	// Unbounded and bounded ends don't collide
	all := tree.FindNodesInRange(Unbounded[string](), Unbounded[string]())
	assert.Len(t, all, tree.NodeCount())
}

func TestHashRangeDistinguishesBounds(t *testing.T) {
	t.Parallel()

	a := hashRange(rangeKey[int]{start: Inclusive(0), stop: Inclusive(5)})
	b := hashRange(rangeKey[int]{start: Unbounded[int](), stop: Inclusive(5)})
	c := hashRange(rangeKey[int]{start: Inclusive(0), stop: Inclusive(5)})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)

	type code string
	d := hashRange(rangeKey[code]{start: Inclusive(code("AUD"))})
	e := hashRange(rangeKey[code]{start: Inclusive(code("AUD"))})
	assert.Equal(t, d, e)
}
