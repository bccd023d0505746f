package fintrack

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// StockReturn is the performance of one ticker over a range.
type StockReturn struct {
	Ticker string
	Return Percent
}

// ReturnsReport lists per-ticker returns over a range, best first, with
// their arithmetic mean. NaN returns sort last and are excluded from the
// mean.
type ReturnsReport struct {
	Range   Range
	Stocks  []StockReturn
	Average Percent
}

// stockReturn computes the Modified Dietz return of one ticker over a
// range, treating the signed flow series as one continuous investment.
//
// The starting value is the position held before the range, priced at the
// range start. Every trade inside the range is an external flow, signed by
// its share delta: buys and covers put capital in, sells and shorts take it
// out. Flows are weighted by the fraction of the range remaining, and the
// gain is measured against the absolute time-weighted capital, so a pure
// short earns a positive return when the price falls. A position fully
// closed by the end of the range reduces to the realized return on the
// capital put in, the start-of-range value counting as capital already
// committed. When no capital was ever at work the return is NaN.
func stockReturn(ledger *Ledger, market *MarketData, ticker string, r Range) (Percent, error) {
	v0, err := positionValue(ledger, market, ticker, r.From.Add(-1), r.From)
	if err != nil {
		return 0, err
	}
	v1, err := positionValue(ledger, market, ticker, r.To, r.To)
	if err != nil {
		return 0, err
	}

	days := decimal.NewFromInt(int64(r.To.Sub(r.From)))
	var sum, weighted, invested, proceeds decimal.Decimal
	for tx := range ledger.Transactions() {
		if tx.When().After(r.To) {
			break
		}
		if tx.Ticker != ticker || tx.When().Before(r.From) {
			continue
		}
		native := M(tx.Price.Decimal().Mul(tx.Amount.Decimal()), market.Currency(ticker))
		base, err := market.Convert(native, tx.When())
		if err != nil {
			return 0, err
		}
		cf := base.Decimal()
		if tx.Kind.ShareSign() < 0 {
			cf = cf.Neg()
		}
		sum = sum.Add(cf)
		if days.IsPositive() {
			elapsed := decimal.NewFromInt(int64(tx.When().Sub(r.From)))
			weighted = weighted.Add(cf.Mul(days.Sub(elapsed)).Div(days))
		}
		if cf.IsPositive() {
			invested = invested.Add(cf)
		} else {
			proceeds = proceeds.Add(cf.Neg())
		}
	}

	// Closed out by the end of the range: realized return on capital put
	// in. The start-of-range value was capital already committed, so a
	// long start adds to the invested side and a short start to the
	// proceeds side.
	if v1.IsZero() {
		if v0.IsPositive() {
			invested = invested.Add(v0.Decimal())
		}
		if v0.IsNegative() {
			proceeds = proceeds.Add(v0.Decimal().Neg())
		}
		if invested.IsZero() {
			return Percent(math.NaN()), nil
		}
		return ratio(proceeds.Sub(invested), invested), nil
	}

	gain := v1.Decimal().Sub(v0.Decimal()).Sub(sum)
	denom := v0.Decimal().Add(weighted)
	if denom.IsZero() {
		return Percent(math.NaN()), nil
	}
	return ratio(gain, denom.Abs()), nil
}

func ratio(num, den decimal.Decimal) Percent {
	return Percent(num.Div(den).InexactFloat64() * 100)
}

// positionValue prices the position held at the end of 'held' at the close
// of 'priced'. A flat position is worth zero without touching the market.
func positionValue(ledger *Ledger, market *MarketData, ticker string, held, priced Date) (Money, error) {
	pos := ledger.Position(ticker, held)
	if pos.IsZero() {
		return M(0, market.BaseCurrency()), nil
	}
	price, err := market.Price(ticker, priced)
	if err != nil {
		return Money{}, err
	}
	return price.Mul(pos), nil
}

// stockReturns computes the return of every ticker active in the range:
// held at its start or traded inside it.
func stockReturns(ledger *Ledger, market *MarketData, r Range) (*ReturnsReport, error) {
	report := &ReturnsReport{Range: r, Average: Percent(math.NaN())}
	for _, ticker := range ledger.Tickers() {
		if !tickerActive(ledger, ticker, r) {
			continue
		}
		ret, err := stockReturn(ledger, market, ticker, r)
		if err != nil {
			return nil, err
		}
		report.Stocks = append(report.Stocks, StockReturn{Ticker: ticker, Return: ret})
	}
	sortStocks(report.Stocks)

	var sum float64
	var n int
	for _, s := range report.Stocks {
		if !s.Return.IsNaN() {
			sum += float64(s.Return)
			n++
		}
	}
	if n > 0 {
		report.Average = Percent(sum / float64(n))
	}
	return report, nil
}

func tickerActive(ledger *Ledger, ticker string, r Range) bool {
	if !ledger.Position(ticker, r.From.Add(-1)).IsZero() {
		return true
	}
	for tx := range ledger.Transactions() {
		if tx.When().After(r.To) {
			break
		}
		if tx.Ticker == ticker && !tx.When().Before(r.From) {
			return true
		}
	}
	return false
}

// sortStocks orders best return first, NaN last, ties by ticker.
func sortStocks(stocks []StockReturn) {
	sort.SliceStable(stocks, func(i, j int) bool {
		a, b := stocks[i].Return, stocks[j].Return
		switch {
		case a.IsNaN():
			return false
		case b.IsNaN():
			return true
		case a != b:
			return a > b
		default:
			return stocks[i].Ticker < stocks[j].Ticker
		}
	})
}

// indexReturn is the plain price return of a benchmark ticker over a range,
// in its native currency: close(to)/close(from) - 1.
func indexReturn(market *MarketData, ticker string, r Range) (Percent, error) {
	first, err := market.NativePrice(ticker, r.From)
	if err != nil {
		return 0, err
	}
	last, err := market.NativePrice(ticker, r.To)
	if err != nil {
		return 0, err
	}
	if first.IsZero() {
		return Percent(math.NaN()), nil
	}
	return ratio(last.Decimal().Sub(first.Decimal()), first.Decimal()), nil
}

// indexReturns computes the benchmark returns of the given tickers.
func indexReturns(market *MarketData, tickers []string, r Range) (*ReturnsReport, error) {
	report := &ReturnsReport{Range: r, Average: Percent(math.NaN())}
	for _, ticker := range tickers {
		ret, err := indexReturn(market, ticker, r)
		if err != nil {
			return nil, err
		}
		report.Stocks = append(report.Stocks, StockReturn{Ticker: ticker, Return: ret})
	}
	sortStocks(report.Stocks)

	var sum float64
	var n int
	for _, s := range report.Stocks {
		if !s.Return.IsNaN() {
			sum += float64(s.Return)
			n++
		}
	}
	if n > 0 {
		report.Average = Percent(sum / float64(n))
	}
	return report, nil
}
