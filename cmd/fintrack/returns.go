package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arofre/FinTrack"
	"github.com/arofre/FinTrack/renderer"
)

type returnsCmd struct {
	from  string
	to    string
	index bool
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "computes per-stock returns over a range" }
func (*returnsCmd) Usage() string {
	return `fintrack returns [-from <date>] [-to <date>] [-index]

  Computes the Modified Dietz return of every stock active in the
  range, best performer first, with the average. With -index it
  reports the plain price return of the watched benchmark tickers
  instead. Defaults to the last thirty days.

Usage Examples:
$ fintrack returns -from 2025-01-01
$ fintrack returns -index

`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the range, thirty days before -to by default.")
	f.StringVar(&c.to, "to", "", "Last day of the range, today by default.")
	f.BoolVar(&c.index, "index", false, "Report the watched benchmark indices instead of the holdings.")
}

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRangeFlags(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tracker, err := loadTracker(ctx, r.To)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var report *fintrack.ReturnsReport
	title := "Stock returns"
	if c.index {
		title = "Index returns"
		report, err = tracker.IndexReturns(r)
	} else {
		report, err = tracker.Returns(r)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing returns: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Returns(title, report))
	return subcommands.ExitSuccess
}
