package fintrack

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MarketData holds the price, dividend and exchange-rate step functions of
// every ticker the portfolio ever traded, normalized for lookup in a single
// base currency. It is immutable once built; build a new one to refresh.
type MarketData struct {
	base       string
	prices     map[string]*History[Money]    // native currency closes per ticker
	dividends  map[string]*History[Money]    // native per-share dividend events
	currencies map[string]string             // ticker to native currency
	rates      map[string]*History[Quantity] // native currency to base multiplier
}

// NewMarketData creates an empty market for the given base currency.
// Series are then attached with SetSeries and SetRates; FetchMarketData
// does this from live providers.
func NewMarketData(base string) *MarketData {
	return &MarketData{
		base:       base,
		prices:     make(map[string]*History[Money]),
		dividends:  make(map[string]*History[Money]),
		currencies: make(map[string]string),
		rates:      make(map[string]*History[Quantity]),
	}
}

// SetSeries attaches the native price and dividend series of a ticker.
func (m *MarketData) SetSeries(ticker, currency string, prices, dividends *History[Money]) {
	if dividends == nil {
		dividends = &History[Money]{}
	}
	m.currencies[ticker] = currency
	m.prices[ticker] = prices
	m.dividends[ticker] = dividends
}

// SetRates attaches the series converting one unit of 'currency' to base.
func (m *MarketData) SetRates(currency string, rates *History[Quantity]) {
	m.rates[currency] = rates
}

// BaseCurrency returns the currency all lookups convert into.
func (m *MarketData) BaseCurrency() string { return m.base }

// Currency returns the native currency of a ticker, "" when unknown.
func (m *MarketData) Currency(ticker string) string { return m.currencies[ticker] }

// Tickers returns every ticker with a price series, sorted.
func (m *MarketData) Tickers() []string {
	tickers := make([]string, 0, len(m.prices))
	for t := range m.prices {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// NativePrice returns the closing price of a ticker on a day, or the most
// recent one before it, in the ticker's native currency.
func (m *MarketData) NativePrice(ticker string, on Date) (Money, error) {
	h, ok := m.prices[ticker]
	if !ok {
		return Money{}, &PriceUnavailableError{Symbol: ticker, On: on}
	}
	price, ok := h.ValueAsOf(on)
	if !ok {
		return Money{}, &PriceUnavailableError{Symbol: ticker, On: on}
	}
	return price, nil
}

// Rate returns the multiplier converting one unit of 'currency' into base
// on a day, with forward-fill. The base currency converts at 1.
func (m *MarketData) Rate(currency string, on Date) (Quantity, error) {
	if currency == m.base || currency == "" {
		return Q(1), nil
	}
	h, ok := m.rates[currency]
	if !ok {
		return Quantity{}, &PriceUnavailableError{Symbol: currency + "/" + m.base, On: on}
	}
	rate, ok := h.ValueAsOf(on)
	if !ok {
		return Quantity{}, &PriceUnavailableError{Symbol: currency + "/" + m.base, On: on}
	}
	return rate, nil
}

// Convert converts a native-currency amount into base at the rate of 'on'.
func (m *MarketData) Convert(v Money, on Date) (Money, error) {
	rate, err := m.Rate(v.Currency(), on)
	if err != nil {
		return Money{}, err
	}
	return M(v.Decimal(), m.base).Mul(rate), nil
}

// Price returns the base-currency price of a ticker on a day: the native
// forward-filled close converted at that day's exchange rate.
func (m *MarketData) Price(ticker string, on Date) (Money, error) {
	native, err := m.NativePrice(ticker, on)
	if err != nil {
		return Money{}, err
	}
	return m.Convert(native, on)
}

// Dividends returns the per-share dividend events of a ticker, native
// currency. Never nil.
func (m *MarketData) Dividends(ticker string) *History[Money] {
	h, ok := m.dividends[ticker]
	if !ok {
		return &History[Money]{}
	}
	return h
}

// FetchMarketData builds a MarketData by querying the providers for every
// ticker concurrently. It is a barrier: either all series are fetched and
// combined, or the first error cancels the remaining fetches and is
// returned. No partial market is ever observable.
func FetchMarketData(ctx context.Context, base string, tickers []string, prices PriceProvider, fx FXProvider, r Range) (*MarketData, error) {
	market := NewMarketData(base)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, ticker := range tickers {
		g.Go(func() error {
			currency, err := prices.Currency(gctx, ticker)
			if err != nil {
				return err
			}
			series, err := prices.Prices(gctx, ticker, r)
			if err != nil {
				return err
			}
			divs, err := prices.Dividends(gctx, ticker, r)
			if err != nil {
				return err
			}
			mu.Lock()
			market.SetSeries(ticker, currency, series, divs)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Rates for every foreign currency seen, fetched in a second wave
	// because the set is only known once currencies resolve.
	foreign := make(map[string]bool)
	for _, currency := range market.currencies {
		if currency != base {
			foreign[currency] = true
		}
	}
	g, gctx = errgroup.WithContext(ctx)
	for currency := range foreign {
		g.Go(func() error {
			rates, err := fx.Rates(gctx, currency, base, r)
			if err != nil {
				return err
			}
			mu.Lock()
			market.SetRates(currency, rates)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return market, nil
}
