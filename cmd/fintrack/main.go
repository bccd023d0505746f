// Command fintrack tracks a stock portfolio from a plain CSV transaction
// log: holdings, cash, daily valuation, Modified Dietz returns, and a
// small JSON API over the same engine.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&summaryCmd{}, "reports")
	commander.Register(&holdingsCmd{}, "reports")
	commander.Register(&cashCmd{}, "reports")
	commander.Register(&valueCmd{}, "reports")
	commander.Register(&returnsCmd{}, "reports")

	commander.Register(&addCmd{}, "transactions")
	commander.Register(&logCmd{}, "transactions")

	commander.Register(&updateCmd{}, "data")
	commander.Register(&serveCmd{}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
