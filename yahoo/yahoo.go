// Package yahoo fetches prices, dividends and exchange rates from the Yahoo
// Finance chart API. The Client implements fintrack.PriceProvider and
// fintrack.FXProvider.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/arofre/FinTrack"
)

// DefaultBaseURL is the production chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client queries the Yahoo Finance v8 chart API. One chart request carries
// prices, dividend events and the trading currency; the currency is cached
// per ticker because it never changes.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu         sync.Mutex
	currencies map[string]string
}

// NewClient creates a client against the production API.
func NewClient() *Client {
	return NewClientURL(DefaultBaseURL)
}

// NewClientURL creates a client against an alternate endpoint, for tests.
func NewClientURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		currencies: make(map[string]string),
	}
}

// Prices returns the daily closes of a symbol over the range, in its native
// currency. Quotes in pence (GBp) are normalized to pounds.
func (c *Client) Prices(ctx context.Context, ticker string, r fintrack.Range) (*fintrack.History[fintrack.Money], error) {
	result, err := c.fetchChart(ctx, ticker, r)
	if err != nil {
		return nil, err
	}
	currency, scale := normalizeCurrency(result.Meta.Currency)

	h := &fintrack.History[fintrack.Money]{}
	if len(result.Indicators.Quote) == 0 {
		return nil, &fintrack.DataFetchError{Provider: "yahoo", Symbol: ticker, Err: errors.New("no quote data returned")}
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, &fintrack.DataFetchError{Provider: "yahoo", Symbol: ticker, Err: errors.New("mismatched data lengths")}
	}
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue // non-trading day
		}
		h.Append(unixDate(ts), fintrack.M(*closes[i]*scale, currency))
	}
	if h.Len() == 0 {
		return nil, &fintrack.DataFetchError{Provider: "yahoo", Symbol: ticker, Err: errors.New("no close prices returned")}
	}

	c.mu.Lock()
	c.currencies[ticker] = currency
	c.mu.Unlock()
	return h, nil
}

// Dividends returns the per-share dividend events of a symbol over the
// range, in its native currency. An empty history means no dividends.
func (c *Client) Dividends(ctx context.Context, ticker string, r fintrack.Range) (*fintrack.History[fintrack.Money], error) {
	result, err := c.fetchChart(ctx, ticker, r)
	if err != nil {
		return nil, err
	}
	currency, scale := normalizeCurrency(result.Meta.Currency)

	h := &fintrack.History[fintrack.Money]{}
	for _, ev := range result.Events.Dividends {
		h.Append(unixDate(ev.Date), fintrack.M(ev.Amount*scale, currency))
	}
	return h, nil
}

// Currency returns the ISO 4217 code a ticker trades in, from the cache
// when a previous chart fetch resolved it.
func (c *Client) Currency(ctx context.Context, ticker string) (string, error) {
	c.mu.Lock()
	currency, ok := c.currencies[ticker]
	c.mu.Unlock()
	if ok {
		return currency, nil
	}

	// A one-week chart is the cheapest call that carries the currency.
	to := fintrack.Today()
	result, err := c.fetchChart(ctx, ticker, fintrack.NewRange(to.Add(-7), to))
	if err != nil {
		return "", err
	}
	currency, _ = normalizeCurrency(result.Meta.Currency)
	if currency == "" {
		return "", &fintrack.DataFetchError{Provider: "yahoo", Symbol: ticker, Err: errors.New("no currency in metadata")}
	}

	c.mu.Lock()
	c.currencies[ticker] = currency
	c.mu.Unlock()
	return currency, nil
}

// Rates returns the daily multiplier converting one unit of 'from' into
// 'to', using Yahoo's synthetic FX symbols like "EURUSD=X". The identity
// pair short-circuits without a network call.
func (c *Client) Rates(ctx context.Context, from, to string, r fintrack.Range) (*fintrack.History[fintrack.Quantity], error) {
	h := &fintrack.History[fintrack.Quantity]{}
	if from == to {
		h.Append(r.From, fintrack.Q(1))
		return h, nil
	}

	symbol := from + to + "=X"
	result, err := c.fetchChart(ctx, symbol, r)
	if err != nil {
		return nil, err
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, &fintrack.DataFetchError{Provider: "yahoo", Symbol: symbol, Err: errors.New("no quote data returned")}
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, &fintrack.DataFetchError{Provider: "yahoo", Symbol: symbol, Err: errors.New("mismatched data lengths")}
	}
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		h.Append(unixDate(ts), fintrack.Q(*closes[i]))
	}
	if h.Len() == 0 {
		return nil, &fintrack.DataFetchError{Provider: "yahoo", Symbol: symbol, Err: errors.New("no rates returned")}
	}
	return h, nil
}

// LongName returns the display name of a ticker, plucked from the chart
// metadata. Falls back to the ticker itself when Yahoo has no name.
func (c *Client) LongName(ctx context.Context, ticker string) (string, error) {
	to := fintrack.Today()
	url := c.chartURL(ticker, fintrack.NewRange(to.Add(-7), to))

	var doc any
	if err := c.jget(ctx, url, &doc); err != nil {
		return "", &fintrack.DataFetchError{Provider: "yahoo", Symbol: ticker, Err: err}
	}
	jval, err := jsonpath.Get("$.chart.result[0].meta.longName", doc)
	if err != nil {
		return ticker, nil
	}
	// jsonpath may answer with a single value or a list of one.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	if name, ok := jval.(string); ok && name != "" {
		return name, nil
	}
	return ticker, nil
}

func (c *Client) chartURL(symbol string, r fintrack.Range) string {
	// period2 is exclusive; one extra day keeps the range end inclusive.
	return fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&events=div&period1=%d&period2=%d",
		c.baseURL, symbol, r.From.Unix(), r.To.Add(1).Unix())
}

func (c *Client) fetchChart(ctx context.Context, symbol string, r fintrack.Range) (chartResult, error) {
	var response chartResponse
	if err := c.jget(ctx, c.chartURL(symbol, r), &response); err != nil {
		return chartResult{}, &fintrack.DataFetchError{Provider: "yahoo", Symbol: symbol, Err: err}
	}
	if response.Chart.Error != nil {
		err := fmt.Errorf("%s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
		return chartResult{}, &fintrack.DataFetchError{Provider: "yahoo", Symbol: symbol, Err: err}
	}
	if len(response.Chart.Result) == 0 {
		return chartResult{}, &fintrack.DataFetchError{Provider: "yahoo", Symbol: symbol, Err: errors.New("no results returned")}
	}
	return response.Chart.Result[0], nil
}

// jget performs an HTTP GET and unmarshals the JSON response into data.
func (c *Client) jget(ctx context.Context, url string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	// Yahoo rejects requests without a browser-looking agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v: %v", req.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// normalizeCurrency maps Yahoo's pence quotes to pounds.
func normalizeCurrency(currency string) (code string, scale float64) {
	if currency == "GBp" {
		return "GBP", 0.01
	}
	return currency, 1
}

func unixDate(ts int64) fintrack.Date {
	return fintrack.NewDate(time.Unix(ts, 0).UTC().Date())
}

var _ fintrack.PriceProvider = (*Client)(nil)
var _ fintrack.FXProvider = (*Client)(nil)
