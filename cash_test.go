package fintrack

import (
	"errors"
	"testing"
	"time"
)

// priceSeries builds a native-currency price history from day/value pairs.
func priceSeries(currency string, points map[Date]float64) *History[Money] {
	h := &History[Money]{}
	for on, v := range points {
		h.Append(on, M(v, currency))
	}
	return h
}

func quantitySeries(points map[Date]float64) *History[Quantity] {
	h := &History[Quantity]{}
	for on, v := range points {
		h.Append(on, Q(v))
	}
	return h
}

func TestBuildCashHistory_Flows(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	jan15 := NewDate(2024, time.January, 15)

	ledger, err := NewLedger(
		NewTransaction(jan10, "AAPL", Buy, 5, 100),
		NewTransaction(jan15, "TSLA", Short, 10, 20),
	)
	if err != nil {
		t.Fatalf("NewLedger() returned unexpected error: %v", err)
	}

	market := NewMarketData("USD")
	market.SetSeries("AAPL", "USD", priceSeries("USD", map[Date]float64{jan10: 100}), nil)
	market.SetSeries("TSLA", "USD", priceSeries("USD", map[Date]float64{jan15: 20}), nil)

	cash, err := buildCashHistory(ledger, market, M(1000, "USD"), NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("buildCashHistory() returned unexpected error: %v", err)
	}

	testCases := []struct {
		name string
		on   Date
		want Money
	}{
		{name: "initial balance the day before inception", on: NewDate(2024, time.January, 9), want: M(1000, "USD")},
		{name: "buy spends cash", on: jan10, want: M(500, "USD")},
		{name: "balance carries between flows", on: NewDate(2024, time.January, 12), want: M(500, "USD")},
		{name: "short raises cash", on: jan15, want: M(700, "USD")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := cash.ValueAsOf(tc.on)
			if !ok {
				t.Fatalf("ValueAsOf(%v) found no balance", tc.on)
			}
			if !got.Equal(tc.want) {
				t.Errorf("cash on %v = %v, want %v", tc.on, got, tc.want)
			}
		})
	}
}

func TestBuildCashHistory_DividendsOnlyOnLongPositions(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	jan20 := NewDate(2024, time.January, 20)

	ledger, err := NewLedger(
		NewTransaction(jan10, "AAPL", Buy, 10, 100),
		NewTransaction(jan10, "TSLA", Short, 10, 20),
	)
	if err != nil {
		t.Fatalf("NewLedger() returned unexpected error: %v", err)
	}

	aaplDivs := priceSeries("USD", map[Date]float64{jan20: 1})
	tslaDivs := priceSeries("USD", map[Date]float64{jan20: 2})
	market := NewMarketData("USD")
	market.SetSeries("AAPL", "USD", priceSeries("USD", map[Date]float64{jan10: 100}), aaplDivs)
	market.SetSeries("TSLA", "USD", priceSeries("USD", map[Date]float64{jan10: 20}), tslaDivs)

	cash, err := buildCashHistory(ledger, market, M(1000, "USD"), NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("buildCashHistory() returned unexpected error: %v", err)
	}

	// 1000 - 10*100 (buy) + 10*20 (short proceeds) = 200, then +10*1 AAPL
	// dividend. The TSLA dividend is not owed to a short holder here; the
	// borrow-side payment is out of scope.
	got, _ := cash.ValueAsOf(jan20)
	if want := M(210, "USD"); !got.Equal(want) {
		t.Errorf("cash after dividends = %v, want %v", got, want)
	}
}

func TestBuildCashHistory_DividendUsesPositionBeforeSameDayTrades(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	jan20 := NewDate(2024, time.January, 20)

	// The whole position is sold on the ex-date: the dividend still pays on
	// the shares held coming into that day.
	ledger, err := NewLedger(
		NewTransaction(jan10, "AAPL", Buy, 10, 100),
		NewTransaction(jan20, "AAPL", Sell, 10, 100),
	)
	if err != nil {
		t.Fatalf("NewLedger() returned unexpected error: %v", err)
	}

	market := NewMarketData("USD")
	market.SetSeries("AAPL", "USD",
		priceSeries("USD", map[Date]float64{jan10: 100}),
		priceSeries("USD", map[Date]float64{jan20: 1}))

	cash, err := buildCashHistory(ledger, market, M(1000, "USD"), NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("buildCashHistory() returned unexpected error: %v", err)
	}

	// 1000 - 1000 + 1000 (sell) + 10*1 (dividend) = 1010.
	got, _ := cash.ValueAsOf(jan20)
	if want := M(1010, "USD"); !got.Equal(want) {
		t.Errorf("cash on ex-date = %v, want %v", got, want)
	}
}

func TestBuildCashHistory_ConvertsAtFlowDate(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	jan15 := NewDate(2024, time.January, 15)

	ledger, err := NewLedger(
		NewTransaction(jan10, "SAP", Buy, 10, 10),
		NewTransaction(jan15, "SAP", Sell, 10, 10),
	)
	if err != nil {
		t.Fatalf("NewLedger() returned unexpected error: %v", err)
	}

	market := NewMarketData("USD")
	market.SetSeries("SAP", "EUR", priceSeries("EUR", map[Date]float64{jan10: 10}), nil)
	market.SetRates("EUR", quantitySeries(map[Date]float64{jan10: 1.1, jan15: 1.2}))

	cash, err := buildCashHistory(ledger, market, M(1000, "USD"), NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("buildCashHistory() returned unexpected error: %v", err)
	}

	// Buy converts at 1.1 (-110), the sell at 1.2 (+120): same EUR amounts,
	// different USD flows.
	got, _ := cash.ValueAsOf(jan15)
	if want := M(1010, "USD"); !got.Equal(want) {
		t.Errorf("cash after round trip = %v, want %v", got, want)
	}
}

func TestBuildCashHistory_MissingRateFails(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	ledger, err := NewLedger(NewTransaction(jan10, "SAP", Buy, 10, 10))
	if err != nil {
		t.Fatalf("NewLedger() returned unexpected error: %v", err)
	}

	market := NewMarketData("USD")
	market.SetSeries("SAP", "EUR", priceSeries("EUR", map[Date]float64{jan10: 10}), nil)

	_, err = buildCashHistory(ledger, market, M(1000, "USD"), NewDate(2024, time.January, 31))
	var perr *PriceUnavailableError
	if !errors.As(err, &perr) {
		t.Fatalf("buildCashHistory() = %v, want a *PriceUnavailableError", err)
	}
}

func TestBuildCashHistory_EmptyLedger(t *testing.T) {
	cash, err := buildCashHistory(&Ledger{}, NewMarketData("USD"), M(1000, "USD"), NewDate(2024, time.January, 31))
	if err != nil {
		t.Fatalf("buildCashHistory() returned unexpected error: %v", err)
	}
	if cash.Len() != 0 {
		t.Errorf("Len() = %d, want 0 change points for an empty ledger", cash.Len())
	}
	if got := cashAsOf(cash, M(1000, "USD"), NewDate(2024, time.January, 15)); !got.Equal(M(1000, "USD")) {
		t.Errorf("cashAsOf() = %v, want the initial balance", got)
	}
}
