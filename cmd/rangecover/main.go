package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

var treeFlags = []cli.Flag{
	&cli.IntFlag{
		Name:    "max-entries",
		Usage:   "maximum number of entries per tree node",
		Value:   3,
		EnvVars: []string{"RANGECOVER_MAX_ENTRIES"},
	},
	&cli.StringFlag{
		Name:    "strategy",
		Usage:   "how full nodes grow: 'grow' (unbalanced m-way tree) or 'split' (B-tree style)",
		Value:   "grow",
		EnvVars: []string{"RANGECOVER_STRATEGY"},
	},
	&cli.StringSliceFlag{
		Name:    "codes",
		Usage:   "ISO-4217 currency codes to insert, comma separated",
		EnvVars: []string{"RANGECOVER_CODES"},
	},
	&cli.IntFlag{
		Name:    "random",
		Usage:   "number of random currencies to insert when no codes are given",
		Value:   24,
		EnvVars: []string{"RANGECOVER_RANDOM"},
	},
	&cli.Int64Flag{
		Name:    "seed",
		Usage:   "seed for random currencies and verification trials",
		Value:   1,
		EnvVars: []string{"RANGECOVER_SEED"},
	},
}

func run(args []string) error {
	return newApp(os.Stdout).Run(args)
}

func newApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "rangecover",
		Usage:   "multi-way search tree range-cover demo",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"RANGECOVER_LOG_LEVEL", "LOG_LEVEL"},
			},
		},
		Writer: out,
	}
	app.Commands = []*cli.Command{
		cmdTree,
		cmdRange,
		cmdCover,
		cmdVerify,
	}
	return app
}
