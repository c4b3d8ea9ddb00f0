package rangecover

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"
)

type rangeKey[K cmp.Ordered] struct {
	start, stop Bound[K]
}

// rangeEntry is a memoized FindNodesInRange result, valid only while the
// tree is still at version.
type rangeEntry struct {
	version uint64
	nodes   []NodeID
}

// rangeCache memoizes range queries in an LRU. It is not safe for concurrent
// use, same as the tree it serves.
type rangeCache[K cmp.Ordered] struct {
	lru *freelru.LRU[rangeKey[K], rangeEntry]

	// Stats
	hits   uint64
	misses uint64
}

func newRangeCache[K cmp.Ordered](size uint32) (*rangeCache[K], error) {
	lru, err := freelru.New[rangeKey[K], rangeEntry](size, hashRange[K])
	if err != nil {
		return nil, fmt.Errorf("range cache: %w", err)
	}
	return &rangeCache[K]{lru: lru}, nil
}

func (c *rangeCache[K]) get(start, stop Bound[K], version uint64) ([]NodeID, bool) {
	e, ok := c.lru.Get(rangeKey[K]{start: start, stop: stop})
	if !ok || e.version != version {
		c.misses++
		return nil, false
	}
	c.hits++
	return slices.Clone(e.nodes), true
}

func (c *rangeCache[K]) put(start, stop Bound[K], version uint64, nodes []NodeID) {
	c.lru.Add(rangeKey[K]{start: start, stop: stop}, rangeEntry{version: version, nodes: slices.Clone(nodes)})
}

func hashRange[K cmp.Ordered](k rangeKey[K]) uint32 {
	d := xxhash.New()
	hashBound(d, k.start)
	hashBound(d, k.stop)
	return uint32(d.Sum64())
}

func hashBound[K cmp.Ordered](d *xxhash.Digest, b Bound[K]) {
	key, ok := b.Key()
	if !ok {
		_, _ = d.Write([]byte{0})
		return
	}
	_, _ = d.Write([]byte{1})

	var buf [8]byte
	switch v := any(key).(type) {
	case string:
		_, _ = d.WriteString(v)
		return
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case int32:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case uint:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], v)
	case uint32:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case float64:
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	case float32:
		binary.LittleEndian.PutUint64(buf[:], uint64(math.Float32bits(v)))
	default:
		// Named and narrow types; equality is checked by the LRU itself
		_, _ = d.WriteString(fmt.Sprint(v))
		return
	}
	_, _ = d.Write(buf[:])
}
