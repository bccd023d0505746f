package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arofre/FinTrack/renderer"
)

type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "details every position with price, value, cash and total"
}
func (*summaryCmd) Usage() string {
	return `fintrack summary [-d <date>]

  Details every open position with its base-currency price and value,
  plus the cash balance and the portfolio total. Defaults to today.

Usage Examples:
$ fintrack summary
$ fintrack summary -d 2025-06-30

`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Report date (YYYY-MM-DD), today by default.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tracker, err := loadTracker(ctx, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	summary, err := tracker.SummaryOn(on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing summary: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Summary(summary))
	return subcommands.ExitSuccess
}
