package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"

	"github.com/arofre/FinTrack"
)

type addCmd struct {
	date   string
	ticker string
	kind   string
	amount float64
	price  float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "records a transaction in the ledger file" }
func (*addCmd) Usage() string {
	return `fintrack add -t <ticker> -k <type> -n <amount> -p <price> [-d <date>]

  Validates a transaction and rewrites the ledger file with it in
  chronological order. Type is one of Buy, Sell, Short, Cover. The
  price is per share, in the ticker's native currency. A missing
  ledger file is created.

Usage Examples:
$ fintrack add -t AAPL -k buy -n 10 -p 178.5
$ fintrack add -t TSLA -k short -n 5 -p 240 -d 2025-06-30

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), today by default.")
	f.StringVar(&c.ticker, "t", "", "Ticker symbol.")
	f.StringVar(&c.kind, "k", "buy", "Transaction type: Buy, Sell, Short or Cover.")
	f.Float64Var(&c.amount, "n", 0, "Number of shares, a strictly positive whole number.")
	f.Float64Var(&c.price, "p", 0, "Execution price per share, native currency.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDateFlag(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	kind, err := fintrack.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := fintrack.NewTransaction(on, c.ticker, kind, c.amount, c.price)
	if err := tx.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid transaction: %v\n", err)
		return subcommands.ExitUsageError
	}

	txs, err := readLedgerFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	// The ledger sorts and re-validates the whole log.
	ledger, err := fintrack.NewLedger(append(txs, tx)...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := writeLedgerFile(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s in %s\n", tx, *ledgerFile)
	return subcommands.ExitSuccess
}

// readLedgerFile reads the ledger file, a missing file is an empty log.
func readLedgerFile() ([]fintrack.Transaction, error) {
	file, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return fintrack.ReadCSV(file)
}

func writeLedgerFile(ledger *fintrack.Ledger) error {
	var txs []fintrack.Transaction
	for tx := range ledger.Transactions() {
		txs = append(txs, tx)
	}
	file, err := os.Create(*ledgerFile)
	if err != nil {
		return err
	}
	defer file.Close()
	return fintrack.WriteCSV(file, txs)
}
