package rangecover

import (
	"fmt"
	"strings"
)

// Strategy controls how Insert grows the tree when a node is full
type Strategy int

const (
	// GrowLeaves keeps the tree an unbalanced m-way search tree. A key that
	// lands in a full node becomes a new single-entry child in the empty slot
	// it falls into.
	// - No entry ever moves after insertion
	// - Height depends on insertion order
	GrowLeaves Strategy = iota

	// SplitFull keeps the tree height balanced in the manner of a B-tree. Keys
	// always enter a leaf and an overflowing node splits around its median,
	// pushing the separator into its parent.
	// - Entries may move between nodes on insert
	// - All leaves stay at the same depth
	SplitFull
)

func (s Strategy) String() string {
	switch s {
	case GrowLeaves:
		return "grow"
	case SplitFull:
		return "split"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps the names printed by Strategy.String back to a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "grow", "":
		return GrowLeaves, nil
	case "split":
		return SplitFull, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
	}
}

const (
	// DefaultMaxEntries sizes nodes like a (2,4)-tree
	DefaultMaxEntries = 3
	minSplitEntries   = 2
)

// Options configures tree behavior.
type Options struct {
	maxEntries     int      // Maximum number of entries held by a single node.
	strategy       Strategy // How full nodes grow.
	logger         Logger
	rangeCacheSize int // Number of memoized range queries. 0 disables the cache.
}

// DefaultOptions returns the default configuration.
//
// goland:noinspection GoUnusedExportedFunction
func DefaultOptions() Options {
	return Options{
		maxEntries: DefaultMaxEntries,
		strategy:   GrowLeaves,
		logger:     DiscardLogger{},
	}
}

// Option configures tree options using the functional options pattern.
type Option func(*Options)

// WithMaxEntries sets the node capacity. GrowLeaves accepts any n >= 1 (1
// gives a plain binary search tree); SplitFull needs n >= 2.
//
//goland:noinspection GoUnusedExportedFunction
func WithMaxEntries(n int) Option {
	return func(opts *Options) {
		opts.maxEntries = n
	}
}

// WithStrategy selects how the tree grows when a node is full.
//
//goland:noinspection GoUnusedExportedFunction
func WithStrategy(s Strategy) Option {
	return func(opts *Options) {
		opts.strategy = s
	}
}

// WithLogger routes tree diagnostics to logger. A nil logger restores the
// discarding default.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(logger Logger) Option {
	return func(opts *Options) {
		if logger == nil {
			logger = DiscardLogger{}
		}
		opts.logger = logger
	}
}

// WithRangeCache memoizes up to size results of FindNodesInRange. Entries are
// dropped whenever the tree changes.
//
//goland:noinspection GoUnusedExportedFunction
func WithRangeCache(size int) Option {
	return func(opts *Options) {
		opts.rangeCacheSize = size
	}
}

func (o *Options) normalize() {
	switch o.strategy {
	case GrowLeaves:
		o.maxEntries = max(o.maxEntries, 1)
	case SplitFull:
		o.maxEntries = max(o.maxEntries, minSplitEntries)
	default:
		o.strategy = GrowLeaves
		o.maxEntries = max(o.maxEntries, 1)
	}
	if o.logger == nil {
		o.logger = DiscardLogger{}
	}
}
