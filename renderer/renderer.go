// Package renderer formats portfolio reports as markdown, ready for a
// terminal markdown renderer or a plain pager.
package renderer

import (
	"fmt"
	"strings"

	"github.com/arofre/FinTrack"
)

// label prefixes short positions, so a short TSLA reads "Short: TSLA".
func label(ticker string, short bool) string {
	if short {
		return "Short: " + ticker
	}
	return ticker
}

// Holdings renders the open positions as a markdown table.
func Holdings(on fintrack.Date, holdings []fintrack.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings on %s\n\n", on)
	if len(holdings) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Position | Shares |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s |\n", label(h.Ticker, h.Short), h.Shares.Abs())
	}
	return b.String()
}

// Summary renders the full portfolio state: every position with price and
// value, cash, and the total.
func Summary(s *fintrack.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio on %s\n\n", s.On)
	fmt.Fprintln(&b, "| Position | Shares | Price | Value |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, line := range s.Lines {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			label(line.Ticker, line.Short), line.Shares.Abs(), line.Price, line.Value)
	}
	fmt.Fprintf(&b, "| Cash | | | %s |\n", s.Cash)
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", s.Total)
	return b.String()
}

// Values renders a daily value series as a markdown table.
func Values(values *fintrack.History[fintrack.Money]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio value\n\n")
	fmt.Fprintln(&b, "| Date | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	for on, v := range values.Values() {
		fmt.Fprintf(&b, "| %s | %s |\n", on, v)
	}
	return b.String()
}

// Returns renders a returns report, best performer first, with the average.
func Returns(title string, report *fintrack.ReturnsReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", title, report.Range)
	if len(report.Stocks) == 0 {
		fmt.Fprintln(&b, "Nothing to report.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Ticker | Return |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, s := range report.Stocks {
		fmt.Fprintf(&b, "| %s | %s |\n", s.Ticker, s.Return.SignedString())
	}
	fmt.Fprintf(&b, "| **Average** | **%s** |\n", report.Average.SignedString())
	return b.String()
}

// Transactions renders the transaction log as a markdown table.
func Transactions(txs []fintrack.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprintln(&b, "No transactions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Ticker | Type | Amount | Price |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			tx.Date, tx.Ticker, tx.Kind, tx.Amount, tx.Price.Decimal())
	}
	return b.String()
}

// Cash renders a single cash balance line.
func Cash(on fintrack.Date, balance fintrack.Money) string {
	return fmt.Sprintf("Cash on %s: %s\n", on, balance)
}
