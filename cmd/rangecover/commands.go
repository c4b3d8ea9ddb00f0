package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alexhholmes/rangecover"
	"github.com/alexhholmes/rangecover/internal/currency"
	"github.com/alexhholmes/rangecover/internal/verify"
	"github.com/alexhholmes/rangecover/logger"
)

var cmdTree = &cli.Command{
	Name:   "tree",
	Usage:  "build a currency tree and print its nodes",
	Flags:  treeFlags,
	Action: runTree,
}

var cmdRange = &cli.Command{
	Name:      "range",
	Usage:     "list the nodes holding codes in [c1, c2]; '-' leaves an end open",
	ArgsUsage: `<c1> <c2>`,
	Flags:     treeFlags,
	Action:    runRange,
}

var cmdCover = &cli.Command{
	Name:      "cover",
	Usage:     "greedily pick the fewest nodes holding k codes in [c1, c2]",
	ArgsUsage: `<k> <c1> <c2>`,
	Flags:     treeFlags,
	Action:    runCover,
}

var cmdVerify = &cli.Command{
	Name:  "verify",
	Usage: "compare greedy covers with brute-force optimal covers on random trees",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "trials",
			Usage: "number of random trees to check",
			Value: 1000,
		},
		&cli.IntFlag{
			Name:  "min-keys",
			Usage: "minimum number of keys per tree",
			Value: 10,
		},
		&cli.IntFlag{
			Name:  "max-keys",
			Usage: "maximum number of keys per tree",
			Value: 40,
		},
		&cli.IntFlag{
			Name:  "max-k",
			Usage: "largest k drawn for a trial",
			Value: 20,
		},
	}, treeFlags...),
	Action: runVerify,
}

func configLogger(cctx *cli.Context) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cctx.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	return cfg.Build()
}

func treeOptions(cctx *cli.Context, log *zap.Logger) ([]rangecover.Option, error) {
	strategy, err := rangecover.ParseStrategy(cctx.String("strategy"))
	if err != nil {
		return nil, err
	}
	return []rangecover.Option{
		rangecover.WithMaxEntries(cctx.Int("max-entries")),
		rangecover.WithStrategy(strategy),
		rangecover.WithLogger(logger.NewZap(log)),
		rangecover.WithRangeCache(64),
	}, nil
}

func buildTree(cctx *cli.Context, log *zap.Logger) (*rangecover.CoverTree[string, currency.Record], error) {
	opts, err := treeOptions(cctx, log)
	if err != nil {
		return nil, err
	}

	var records []currency.Record
	if codes := cctx.StringSlice("codes"); len(codes) > 0 {
		records, err = currency.ParseAll(codes)
		if err != nil {
			return nil, err
		}
	} else {
		records = currency.Random(cctx.Int64("seed"), cctx.Int("random"))
	}

	tree := rangecover.NewCoverTree[string, currency.Record](opts...)
	for _, r := range records {
		tree.Insert(r.Code, r)
	}
	log.Info("tree built",
		zap.Int("entries", tree.Len()),
		zap.Int("nodes", tree.NodeCount()),
		zap.Int("height", tree.Height()),
		zap.Stringer("strategy", tree.Strategy()),
	)
	return tree, nil
}

func parseBound(arg string) rangecover.Bound[string] {
	if arg == "-" {
		return rangecover.Unbounded[string]()
	}
	return rangecover.Inclusive(strings.ToUpper(strings.TrimSpace(arg)))
}

func runTree(cctx *cli.Context) error {
	log, err := configLogger(cctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tree, err := buildTree(cctx, log)
	if err != nil {
		return err
	}
	out := cctx.App.Writer
	fmt.Fprintln(out, tree.String())
	fmt.Fprintf(out, "%d entries in %d nodes, height %d\n", tree.Len(), tree.NodeCount(), tree.Height())
	return nil
}

func runRange(cctx *cli.Context) error {
	if cctx.Args().Len() != 2 {
		return fmt.Errorf("expected exactly two arguments: <c1> <c2>")
	}
	log, err := configLogger(cctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tree, err := buildTree(cctx, log)
	if err != nil {
		return err
	}

	out := cctx.App.Writer
	nodes := tree.FindNodesInRange(parseBound(cctx.Args().Get(0)), parseBound(cctx.Args().Get(1)))
	if len(nodes) == 0 {
		fmt.Fprintln(out, "no codes in range")
		return nil
	}
	for _, id := range nodes {
		fmt.Fprintf(out, "node #%d %v\n", id, tree.Keys(id))
	}
	return nil
}

func runCover(cctx *cli.Context) error {
	if cctx.Args().Len() != 3 {
		return fmt.Errorf("expected exactly three arguments: <k> <c1> <c2>")
	}
	k, err := strconv.Atoi(cctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("k: %w", err)
	}
	c1, ok1 := parseBound(cctx.Args().Get(1)).Key()
	c2, ok2 := parseBound(cctx.Args().Get(2)).Key()
	if !ok1 || !ok2 {
		return fmt.Errorf("cover needs both range ends")
	}

	log, err := configLogger(cctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tree, err := buildTree(cctx, log)
	if err != nil {
		return err
	}

	out := cctx.App.Writer
	cover, ok := tree.ComputeCover(k, c1, c2)
	if !ok {
		fmt.Fprintf(out, "no (%d, %s, %s)-cover exists\n", k, c1, c2)
		return nil
	}
	fmt.Fprintf(out, "(%d, %s, %s)-cover of %d nodes out of %d candidates:\n", k, c1, c2, len(cover.Nodes), cover.Candidates)
	for i, id := range cover.Nodes {
		fmt.Fprintf(out, "  node #%d %v usable=%d\n", id, tree.Keys(id), cover.Counts[i])
	}
	fmt.Fprintf(out, "usable items: %d\n", cover.Usable)
	return nil
}

func runVerify(cctx *cli.Context) error {
	log, err := configLogger(cctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	strategy, err := rangecover.ParseStrategy(cctx.String("strategy"))
	if err != nil {
		return err
	}

	cfg := verify.DefaultConfig()
	cfg.Trials = cctx.Int("trials")
	cfg.Seed = cctx.Int64("seed")
	cfg.MinKeys = cctx.Int("min-keys")
	cfg.MaxKeys = cctx.Int("max-keys")
	cfg.MaxK = cctx.Int("max-k")
	cfg.MaxEntries = cctx.Int("max-entries")
	cfg.Strategy = strategy
	cfg.Logger = logger.NewZap(log)

	report, err := verify.Run(cctx.Context, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cctx.App.Writer, report.String())
	if !report.OK() {
		for _, v := range report.Violations {
			log.Error("violation", zap.String("detail", v))
		}
		return cli.Exit("verification failed", 1)
	}
	return nil
}
