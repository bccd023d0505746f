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

type logCmd struct{}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "lists the recorded transactions" }
func (*logCmd) Usage() string {
	return `fintrack log

  Lists every transaction of the ledger file in chronological order.

`
}

func (*logCmd) SetFlags(*flag.FlagSet) {}

func (*logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, err := fintrack.CSVFile{Path: *ledgerFile}.Transactions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	ledger, err := fintrack.NewLedger(txs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	sorted := make([]fintrack.Transaction, 0, ledger.Len())
	for tx := range ledger.Transactions() {
		sorted = append(sorted, tx)
	}
	printMarkdown(renderer.Transactions(sorted))
	return subcommands.ExitSuccess
}
