package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arofre/FinTrack/renderer"
)

type holdingsCmd struct {
	date string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "lists the open positions on a date" }
func (*holdingsCmd) Usage() string {
	return `fintrack holdings [-d <date>]

  Lists every open position at the end of the given day, short positions
  tagged. Defaults to today.

Usage Examples:
$ fintrack holdings
$ fintrack holdings -d 2025-06-30

`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Report date (YYYY-MM-DD), today by default.")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	holdings, err := tracker.HoldingsOn(on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Holdings(on, holdings))
	return subcommands.ExitSuccess
}
