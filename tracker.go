package fintrack

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Tracker owns a transaction log, market-data providers and a base
// currency, and answers every portfolio query from them. Refresh fetches
// market data and rebuilds the cash ledger; queries then run against that
// consistent in-memory state. All methods are safe for concurrent use, and
// recomputation is serialized per instance.
type Tracker struct {
	mu      sync.Mutex
	base    string
	initial Money
	ledger  *Ledger
	prices  PriceProvider
	fx      FXProvider
	watch   []string // benchmark tickers fetched alongside holdings

	market  *MarketData
	cash    *History[Money]
	through Date
}

// NewTracker creates a tracker over a transaction log. The initial cash is
// denominated in the base currency and is on the books the day before the
// first transaction.
func NewTracker(ledger *Ledger, prices PriceProvider, fx FXProvider, base string, initialCash float64) *Tracker {
	return &Tracker{
		base:    base,
		initial: M(initialCash, base),
		ledger:  ledger,
		prices:  prices,
		fx:      fx,
	}
}

// Watch registers benchmark tickers whose prices are fetched on every
// Refresh even though the portfolio holds no position in them.
func (t *Tracker) Watch(tickers ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watch = append(t.watch, tickers...)
}

// BaseCurrency returns the currency all values are reported in.
func (t *Tracker) BaseCurrency() string { return t.base }

// Append validates and adds transactions to the log. New tickers only get
// market data on the next Refresh.
func (t *Tracker) Append(txs ...Transaction) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Append(txs...)
}

// Transactions returns a snapshot of the log in chronological order.
func (t *Tracker) Transactions() []Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	txs := make([]Transaction, 0, t.ledger.Len())
	for tx := range t.ledger.Transactions() {
		txs = append(txs, tx)
	}
	return txs
}

// Refresh fetches market data for every traded and watched ticker through
// the given day and rebuilds the derived cash series. It either installs a
// complete new state or leaves the previous one untouched. Refreshing the
// same day twice yields identical state.
func (t *Tracker) Refresh(ctx context.Context, through Date) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tickers := t.ledger.Tickers()
	for _, w := range t.watch {
		found := false
		for _, k := range tickers {
			if k == w {
				found = true
				break
			}
		}
		if !found {
			tickers = append(tickers, w)
		}
	}

	from, ok := t.ledger.Inception()
	if !ok {
		from = through
	}
	// A few days of lead so forward-fill has a close at the first day
	// even when it falls on a weekend or holiday.
	r := NewRange(from.Add(-7), through)

	market, err := FetchMarketData(ctx, t.base, tickers, t.prices, t.fx, r)
	if err != nil {
		return err
	}
	cash, err := buildCashHistory(t.ledger, market, t.initial, through)
	if err != nil {
		return err
	}
	t.market, t.cash, t.through = market, cash, through
	return nil
}

// Through returns the last day covered by the current market data.
func (t *Tracker) Through() Date {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.through
}

var errNotRefreshed = errors.New("no market data, call Refresh first")

// ready guards every query. The caller must hold t.mu.
func (t *Tracker) ready(op string) error {
	if t.market == nil {
		return &ComputationError{Op: op, Err: errNotRefreshed}
	}
	return nil
}

// Holding is one open position, tagged short when the signed count is
// negative.
type Holding struct {
	Ticker string
	Shares Quantity
	Short  bool
}

// HoldingsOn returns every open position at the end of a day, sorted by
// ticker.
func (t *Tracker) HoldingsOn(on Date) ([]Holding, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("holdings"); err != nil {
		return nil, err
	}
	return holdingsOn(t.ledger, on), nil
}

func holdingsOn(ledger *Ledger, on Date) []Holding {
	positions := ledger.Holdings(on)
	holdings := make([]Holding, 0, len(positions))
	for ticker, pos := range positions {
		holdings = append(holdings, Holding{Ticker: ticker, Shares: pos, Short: pos.IsNegative()})
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Ticker < holdings[j].Ticker })
	return holdings
}

// CurrentHoldings returns the open positions as of the last refreshed day.
func (t *Tracker) CurrentHoldings() ([]Holding, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("holdings"); err != nil {
		return nil, err
	}
	return holdingsOn(t.ledger, t.through), nil
}

// CashOn returns the base-currency cash balance at the end of a day.
// Before inception it is the initial balance.
func (t *Tracker) CashOn(on Date) (Money, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("cash"); err != nil {
		return Money{}, err
	}
	return cashAsOf(t.cash, t.initial, on), nil
}

// PriceOn returns the base-currency price of a ticker on a day, with
// forward-fill.
func (t *Tracker) PriceOn(ticker string, on Date) (Money, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("price"); err != nil {
		return Money{}, err
	}
	return t.market.Price(ticker, on)
}

// ValueOn returns the total portfolio value at the end of a day: cash plus
// every position marked to market, shorts counting negative.
func (t *Tracker) ValueOn(on Date) (Money, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("value"); err != nil {
		return Money{}, err
	}
	return portfolioValue(t.ledger, t.market, t.cash, t.initial, on)
}

// Values returns the daily portfolio value over a range.
func (t *Tracker) Values(r Range) (*History[Money], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("values"); err != nil {
		return nil, err
	}
	return valueHistory(t.ledger, t.market, t.cash, t.initial, r)
}

// Returns computes the Modified Dietz return of every ticker active in the
// range, best first, with the average.
func (t *Tracker) Returns(r Range) (*ReturnsReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("returns"); err != nil {
		return nil, err
	}
	return stockReturns(t.ledger, t.market, r)
}

// IndexReturns computes the plain price return of benchmark tickers over a
// range. Without arguments it reports on the watch list.
func (t *Tracker) IndexReturns(r Range, tickers ...string) (*ReturnsReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("index returns"); err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		tickers = t.watch
	}
	return indexReturns(t.market, tickers, r)
}

// SummaryLine details one open position of a Summary.
type SummaryLine struct {
	Ticker string
	Shares Quantity
	Price  Money // base currency, forward-filled
	Value  Money
	Short  bool
}

// Summary is the full state of the portfolio at the end of a day.
type Summary struct {
	On    Date
	Lines []SummaryLine
	Cash  Money
	Total Money
}

// SummaryOn details every open position with its price and value, plus
// cash and the total, at the end of a day.
func (t *Tracker) SummaryOn(on Date) (*Summary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ready("summary"); err != nil {
		return nil, err
	}
	s := &Summary{On: on, Cash: cashAsOf(t.cash, t.initial, on)}
	total := s.Cash
	for _, h := range holdingsOn(t.ledger, on) {
		price, err := t.market.Price(h.Ticker, on)
		if err != nil {
			return nil, err
		}
		value := price.Mul(h.Shares)
		s.Lines = append(s.Lines, SummaryLine{Ticker: h.Ticker, Shares: h.Shares, Price: price, Value: value, Short: h.Short})
		total = total.Add(value)
	}
	s.Total = total
	return s, nil
}
