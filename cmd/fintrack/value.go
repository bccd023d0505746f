package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arofre/FinTrack/renderer"
)

type valueCmd struct {
	from string
	to   string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "reports the daily portfolio value over a range" }
func (*valueCmd) Usage() string {
	return `fintrack value [-from <date>] [-to <date>]

  Reports the total portfolio value (cash plus positions marked to
  market, shorts counting negative) for every day of the range.
  Defaults to the last thirty days.

`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the range, thirty days before -to by default.")
	f.StringVar(&c.to, "to", "", "Last day of the range, today by default.")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	values, err := tracker.Values(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing values: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Values(values))
	return subcommands.ExitSuccess
}
