package fintrack

import (
	"context"
	"errors"
	"fmt"
)

// PriceProvider delivers market data for one ticker. Implementations own
// their retry and timeout policy; the engine never retries.
type PriceProvider interface {
	// Prices returns the daily closing prices over the range, in the
	// ticker's native currency. Providers may return points before the
	// range start so forward-fill has a value at the first day.
	Prices(ctx context.Context, ticker string, r Range) (*History[Money], error)
	// Dividends returns the per-share dividend events over the range, in
	// the ticker's native currency. An empty history is a valid answer.
	Dividends(ctx context.Context, ticker string, r Range) (*History[Money], error)
	// Currency returns the ISO 4217 code the ticker trades in.
	Currency(ctx context.Context, ticker string) (string, error)
}

// FXProvider delivers exchange rates between two currencies.
type FXProvider interface {
	// Rates returns the daily multiplier converting one unit of 'from'
	// into units of 'to', over the range.
	Rates(ctx context.Context, from, to string, r Range) (*History[Quantity], error)
}

// TransactionSource loads a transaction log from an external representation,
// like a CSV file. Entries come back validated and in input order.
type TransactionSource interface {
	Transactions(ctx context.Context) ([]Transaction, error)
}

// MemoryProvider serves prices, dividends, currencies and rates from maps.
// It implements PriceProvider and FXProvider for tests and examples. The
// range argument is ignored: the full recorded series is returned.
type MemoryProvider struct {
	prices     map[string]*History[Money]
	dividends  map[string]*History[Money]
	currencies map[string]string
	rates      map[string]*History[Quantity] // keyed "FROM/TO"
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		prices:     make(map[string]*History[Money]),
		dividends:  make(map[string]*History[Money]),
		currencies: make(map[string]string),
		rates:      make(map[string]*History[Quantity]),
	}
}

// SetCurrency declares the native currency of a ticker.
func (p *MemoryProvider) SetCurrency(ticker, currency string) *MemoryProvider {
	p.currencies[ticker] = currency
	return p
}

// SetPrice records a closing price in the ticker's native currency.
func (p *MemoryProvider) SetPrice(ticker string, on Date, price float64) *MemoryProvider {
	h, ok := p.prices[ticker]
	if !ok {
		h = &History[Money]{}
		p.prices[ticker] = h
	}
	h.Append(on, M(price, p.currencies[ticker]))
	return p
}

// SetDividend records a per-share dividend event.
func (p *MemoryProvider) SetDividend(ticker string, on Date, amount float64) *MemoryProvider {
	h, ok := p.dividends[ticker]
	if !ok {
		h = &History[Money]{}
		p.dividends[ticker] = h
	}
	h.Append(on, M(amount, p.currencies[ticker]))
	return p
}

// SetRate records the multiplier converting one unit of 'from' into 'to'.
func (p *MemoryProvider) SetRate(from, to string, on Date, rate float64) *MemoryProvider {
	key := from + "/" + to
	h, ok := p.rates[key]
	if !ok {
		h = &History[Quantity]{}
		p.rates[key] = h
	}
	h.Append(on, Q(rate))
	return p
}

func (p *MemoryProvider) Prices(_ context.Context, ticker string, _ Range) (*History[Money], error) {
	h, ok := p.prices[ticker]
	if !ok {
		return nil, &DataFetchError{Provider: "memory", Symbol: ticker, Err: errors.New("no price series")}
	}
	return h, nil
}

func (p *MemoryProvider) Dividends(_ context.Context, ticker string, _ Range) (*History[Money], error) {
	h, ok := p.dividends[ticker]
	if !ok {
		return &History[Money]{}, nil
	}
	return h, nil
}

func (p *MemoryProvider) Currency(_ context.Context, ticker string) (string, error) {
	c, ok := p.currencies[ticker]
	if !ok {
		return "", &DataFetchError{Provider: "memory", Symbol: ticker, Err: errors.New("unknown ticker")}
	}
	return c, nil
}

func (p *MemoryProvider) Rates(_ context.Context, from, to string, _ Range) (*History[Quantity], error) {
	key := from + "/" + to
	h, ok := p.rates[key]
	if !ok {
		return nil, &DataFetchError{Provider: "memory", Symbol: key, Err: fmt.Errorf("no rate series")}
	}
	return h, nil
}

var _ PriceProvider = (*MemoryProvider)(nil)
var _ FXProvider = (*MemoryProvider)(nil)
