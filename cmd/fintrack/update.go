package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arofre/FinTrack"
	"github.com/arofre/FinTrack/sqlstore"
)

type updateCmd struct {
	through string
	db      string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetches market data and materializes the database" }
func (*updateCmd) Usage() string {
	return `fintrack update [-to <date>] [-db <path>]

  Fetches prices, dividends and exchange rates for every traded and
  watched ticker, then writes the daily holdings, cash balances and
  prices into the sqlite database. Re-running for the same days
  replaces the rows.

Usage Examples:
$ fintrack update
$ fintrack update -to 2025-06-30 -db ./fintrack.db

`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.through, "to", "", "Last day to materialize (YYYY-MM-DD), today by default.")
	f.StringVar(&c.db, "db", "./fintrack.db", "Path to the sqlite database.")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	through, err := parseDateFlag(c.through)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tracker, err := loadTracker(ctx, through)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	store, err := sqlstore.Open(c.db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database %q: %v\n", c.db, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	if err := materialize(ctx, tracker, store, through); err != nil {
		fmt.Fprintf(os.Stderr, "Error materializing: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Materialized through %s into %s\n", through, c.db)
	return subcommands.ExitSuccess
}

// materialize writes the derived series from inception through the given
// day into the store.
func materialize(ctx context.Context, tracker *fintrack.Tracker, store *sqlstore.Store, through fintrack.Date) error {
	from := through
	if txs := tracker.Transactions(); len(txs) > 0 {
		from = txs[0].Date
	}
	return store.Materialize(ctx, tracker, fintrack.NewRange(from, through))
}
