package fintrack

import (
	"iter"
	"sort"
)

// Ledger is the append-only transaction log. It is kept in chronological
// order; transactions on the same day keep their input order, so intra-day
// sequences like a buy followed by a sell resolve deterministically.
type Ledger struct {
	txs []Transaction
}

// NewLedger creates a ledger from the given transactions.
func NewLedger(txs ...Transaction) (*Ledger, error) {
	l := &Ledger{}
	if err := l.Append(txs...); err != nil {
		return nil, err
	}
	return l, nil
}

// Append validates and adds transactions to the ledger, then restores
// chronological order. On a validation error nothing is appended.
func (l *Ledger) Append(txs ...Transaction) error {
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			if verr, ok := err.(*ValidationError); ok && verr.Line == 0 {
				verr.Line = len(l.txs) + i + 1
			}
			return err
		}
	}
	l.txs = append(l.txs, txs...)
	l.stableSort()
	return nil
}

// stableSort sorts by date only, preserving input order within a day.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.txs, func(i, j int) bool { return l.txs[i].When().Before(l.txs[j].When()) })
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.txs) }

// Transactions returns an iterator over all transactions in ledger order.
func (l *Ledger) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.txs {
			if !yield(tx) {
				return
			}
		}
	}
}

// Inception returns the date of the first transaction, and false when the
// ledger is empty.
func (l *Ledger) Inception() (Date, bool) {
	if len(l.txs) == 0 {
		return Date{}, false
	}
	return l.txs[0].When(), true
}

// Tickers returns every ticker ever traded, sorted.
func (l *Ledger) Tickers() []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, tx := range l.txs {
		if !seen[tx.Ticker] {
			seen[tx.Ticker] = true
			tickers = append(tickers, tx.Ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}

// Position returns the signed share count of a ticker at the end of 'on'.
// Negative means short.
func (l *Ledger) Position(ticker string, on Date) Quantity {
	var pos Quantity
	for _, tx := range l.txs {
		if tx.When().After(on) {
			break
		}
		if tx.Ticker == ticker {
			pos = pos.Add(tx.Shares())
		}
	}
	return pos
}

// Positions folds the ledger into the position step function of a ticker:
// one change point per trading day, carrying the end-of-day signed count.
func (l *Ledger) Positions(ticker string) *History[Quantity] {
	h := &History[Quantity]{}
	var pos Quantity
	for _, tx := range l.txs {
		if tx.Ticker != ticker {
			continue
		}
		pos = pos.Add(tx.Shares())
		h.Append(tx.When(), pos) // same-day entries collapse, last write wins
	}
	return h
}

// Holdings returns the non-zero signed positions of every ticker at the end
// of 'on'.
func (l *Ledger) Holdings(on Date) map[string]Quantity {
	holdings := make(map[string]Quantity)
	for _, tx := range l.txs {
		if tx.When().After(on) {
			break
		}
		holdings[tx.Ticker] = holdings[tx.Ticker].Add(tx.Shares())
	}
	for ticker, pos := range holdings {
		if pos.IsZero() {
			delete(holdings, ticker)
		}
	}
	return holdings
}
