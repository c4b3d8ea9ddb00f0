// Package verify measures the greedy range-cover solver against the
// exhaustive optimum on randomly generated trees.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/btree"

	"github.com/alexhholmes/rangecover"
	"github.com/alexhholmes/rangecover/internal/bruteforce"
)

// Keys are three upper-case letters
const maxDistinctKeys = 26 * 26 * 26

// Config controls the shape and number of random trials
type Config struct {
	Trials      int
	Seed        int64
	MinKeys     int // Distinct keys per tree, inclusive range
	MaxKeys     int
	MaxK        int // k is drawn from [1, MaxK]
	MaxEntries  int
	Strategy    rangecover.Strategy
	ReportEvery int // Log progress every ReportEvery trials, 0 disables
	Logger      rangecover.Logger
}

// DefaultConfig returns trials small enough for exhaustive search to finish
// quickly on most ranges.
func DefaultConfig() Config {
	return Config{
		Trials:      1000,
		Seed:        1,
		MinKeys:     10,
		MaxKeys:     40,
		MaxK:        20,
		MaxEntries:  rangecover.DefaultMaxEntries,
		Strategy:    rangecover.GrowLeaves,
		ReportEvery: 100,
		Logger:      rangecover.DiscardLogger{},
	}
}

// Report summarizes a run. Ratio is optimal cover size over greedy cover
// size, so 1 means greedy was optimal.
type Report struct {
	Trials     int // Trials run to completion
	Compared   int // Trials where both solvers found a cover
	Infeasible int // Trials where neither solver found a cover
	Skipped    int // Trials with too many candidates to enumerate
	Violations []string

	MeanRatio   float64
	WorstRatio  float64
	MeanOptimal float64
}

// OK reports whether every trial agreed with the brute-force solver
func (r Report) OK() bool { return len(r.Violations) == 0 }

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "trials=%d compared=%d infeasible=%d skipped=%d violations=%d",
		r.Trials, r.Compared, r.Infeasible, r.Skipped, len(r.Violations))
	if r.Compared > 0 {
		fmt.Fprintf(&b, " approximation=%.4f worst=%.4f mean_solution=%.2f",
			r.MeanRatio, r.WorstRatio, r.MeanOptimal)
	}
	return b.String()
}

// Run executes cfg.Trials trials. ctx is checked between trials; on
// cancellation the partial report is returned with ctx's error.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.MinKeys < 2 || cfg.MaxKeys < cfg.MinKeys || cfg.MaxKeys > maxDistinctKeys || cfg.MaxK < 1 {
		return Report{}, fmt.Errorf("verify: invalid config: keys [%d, %d], max k %d", cfg.MinKeys, cfg.MaxKeys, cfg.MaxK)
	}
	if cfg.Logger == nil {
		cfg.Logger = rangecover.DiscardLogger{}
	}

	faker := gofakeit.New(cfg.Seed)
	var (
		report   Report
		ratioSum float64
		optSum   int
	)
	report.WorstRatio = 1

	for i := 0; i < cfg.Trials; i++ {
		if err := ctx.Err(); err != nil {
			return report.finish(ratioSum, optSum), err
		}

		t := newTrial(faker, cfg)
		res, err := t.run()
		if err != nil {
			return report.finish(ratioSum, optSum), err
		}
		report.Trials++

		switch {
		case res.violation != "":
			report.Violations = append(report.Violations, fmt.Sprintf("trial %d: %s", i, res.violation))
			cfg.Logger.Error("cover verification failed", "trial", i, "reason", res.violation)
		case res.skipped:
			report.Skipped++
		case !res.feasible:
			report.Infeasible++
		default:
			report.Compared++
			ratio := float64(res.optimal) / float64(res.greedy)
			ratioSum += ratio
			optSum += res.optimal
			report.WorstRatio = min(report.WorstRatio, ratio)
		}

		if cfg.ReportEvery > 0 && (i+1)%cfg.ReportEvery == 0 {
			snapshot := report.finish(ratioSum, optSum)
			cfg.Logger.Info("verification progress",
				"trial", i+1,
				"of", cfg.Trials,
				"approximation", snapshot.MeanRatio,
				"mean_solution", snapshot.MeanOptimal,
				"infeasible", snapshot.Infeasible,
			)
		}
	}
	return report.finish(ratioSum, optSum), nil
}

func (r Report) finish(ratioSum float64, optSum int) Report {
	if r.Compared > 0 {
		r.MeanRatio = ratioSum / float64(r.Compared)
		r.MeanOptimal = float64(optSum) / float64(r.Compared)
	}
	return r
}

type trial struct {
	tree   *rangecover.CoverTree[string, int]
	oracle *btree.BTreeG[string]
	keys   []string
	k      int
	c1, c2 string
}

type result struct {
	feasible  bool
	skipped   bool
	greedy    int
	optimal   int
	violation string
}

func newTrial(faker *gofakeit.Faker, cfg Config) *trial {
	t := &trial{
		tree: rangecover.NewCoverTree[string, int](
			rangecover.WithStrategy(cfg.Strategy),
			rangecover.WithMaxEntries(cfg.MaxEntries),
		),
		oracle: btree.NewOrderedG[string](8),
	}

	n := faker.Number(cfg.MinKeys, cfg.MaxKeys)
	for t.oracle.Len() < n {
		key := strings.ToUpper(faker.LetterN(3))
		if t.oracle.Has(key) {
			continue
		}
		t.oracle.ReplaceOrInsert(key)
		t.tree.Insert(key, len(t.keys))
		t.keys = append(t.keys, key)
	}

	t.k = faker.Number(1, cfg.MaxK)
	a := t.keys[faker.Number(0, n-1)]
	b := t.keys[faker.Number(0, n-1)]
	t.c1, t.c2 = min(a, b), max(a, b)
	return t
}

func (t *trial) run() (result, error) {
	if err := t.tree.Check(); err != nil {
		return result{violation: err.Error()}, nil
	}

	// Count in-range keys with the oracle
	available := 0
	t.oracle.AscendGreaterOrEqual(t.c1, func(key string) bool {
		if key > t.c2 {
			return false
		}
		available++
		return true
	})

	nodes := t.tree.FindNodesInRange(rangecover.Inclusive(t.c1), rangecover.Inclusive(t.c2))
	counts := make([]int, len(nodes))
	usable := 0
	for i, id := range nodes {
		counts[i] = t.tree.UsableCount(id, t.c1, t.c2)
		usable += counts[i]
	}
	if usable != available {
		return result{violation: fmt.Sprintf("range [%s, %s] holds %d keys, nodes hold %d", t.c1, t.c2, available, usable)}, nil
	}

	cover, ok := t.tree.ComputeCover(t.k, t.c1, t.c2)
	if ok && cover.Usable < t.k {
		return result{violation: fmt.Sprintf("cover holds %d keys, want %d", cover.Usable, t.k)}, nil
	}

	if len(counts) > bruteforce.MaxCandidates {
		return result{feasible: ok, skipped: true}, nil
	}
	optimal, feasible, err := bruteforce.MinCover(counts, t.k)
	if err != nil {
		return result{}, err
	}

	switch {
	case ok != feasible:
		return result{violation: fmt.Sprintf("greedy feasible=%t, optimal feasible=%t", ok, feasible)}, nil
	case !ok:
		return result{}, nil
	case len(cover.Nodes) < optimal:
		return result{violation: fmt.Sprintf("greedy cover of %d nodes beats optimum %d", len(cover.Nodes), optimal)}, nil
	}
	return result{feasible: true, greedy: len(cover.Nodes), optimal: optimal}, nil
}
