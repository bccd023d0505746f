package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arofre/FinTrack/renderer"
)

type cashCmd struct {
	date string
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "reports the cash balance on a date" }
func (*cashCmd) Usage() string {
	return `fintrack cash [-d <date>]

  Reports the base-currency cash balance at the end of the given day.
  Defaults to today.

`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Report date (YYYY-MM-DD), today by default.")
}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	balance, err := tracker.CashOn(on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing cash: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Cash(on, balance))
	return subcommands.ExitSuccess
}
