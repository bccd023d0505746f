package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/arofre/FinTrack"
	"github.com/arofre/FinTrack/yahoo"
)

// As a CLI application the lifecycle is short, globals for the shared
// flags are fine.
var (
	ledgerFile = flag.String("ledger", "transactions.csv", "Path to the transaction log (semicolon-separated CSV)")
	baseCur    = flag.String("currency", "USD", "Base reporting currency")
	initCash   = flag.Float64("cash", 0, "Initial cash balance in the base currency, booked before the first transaction")
	watchList  = flag.String("watch", "^GSPC", "Comma-separated benchmark tickers fetched alongside holdings")
)

// loadTracker builds a tracker over the ledger file and refreshes market
// data through the given day.
func loadTracker(ctx context.Context, through fintrack.Date) (*fintrack.Tracker, error) {
	txs, err := fintrack.CSVFile{Path: *ledgerFile}.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger %q: %w", *ledgerFile, err)
	}
	ledger, err := fintrack.NewLedger(txs...)
	if err != nil {
		return nil, err
	}
	quotes := yahoo.NewClient()
	tracker := fintrack.NewTracker(ledger, quotes, quotes, *baseCur, *initCash)
	tracker.Watch(watchTickers()...)
	if err := tracker.Refresh(ctx, through); err != nil {
		return nil, err
	}
	return tracker, nil
}

func watchTickers() []string {
	var tickers []string
	for _, t := range strings.Split(*watchList, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// parseDateFlag reads a date flag, empty meaning today.
func parseDateFlag(raw string) (fintrack.Date, error) {
	if raw == "" {
		return fintrack.Today(), nil
	}
	return fintrack.ParseDate(raw)
}

// parseRangeFlags reads from/to flags. To defaults to today, from to
// thirty days before to.
func parseRangeFlags(fromRaw, toRaw string) (fintrack.Range, error) {
	to, err := parseDateFlag(toRaw)
	if err != nil {
		return fintrack.Range{}, err
	}
	from := to.Add(-30)
	if fromRaw != "" {
		if from, err = fintrack.ParseDate(fromRaw); err != nil {
			return fintrack.Range{}, err
		}
	}
	return fintrack.NewRange(from, to), nil
}
