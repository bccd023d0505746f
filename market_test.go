package fintrack

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFetchMarketData(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	provider := NewMemoryProvider()
	provider.SetCurrency("AAPL", "USD").SetPrice("AAPL", jan10, 100)
	provider.SetCurrency("SAP", "EUR").SetPrice("SAP", jan10, 10)
	provider.SetRate("EUR", "USD", jan10, 1.1)

	r := NewRange(NewDate(2024, time.January, 1), NewDate(2024, time.January, 31))
	market, err := FetchMarketData(context.Background(), "USD", []string{"AAPL", "SAP"}, provider, provider, r)
	if err != nil {
		t.Fatalf("FetchMarketData() returned unexpected error: %v", err)
	}

	if got := market.Currency("SAP"); got != "EUR" {
		t.Errorf("Currency(SAP) = %q, want EUR", got)
	}
	price, err := market.Price("SAP", NewDate(2024, time.January, 15))
	if err != nil {
		t.Fatalf("Price(SAP) returned unexpected error: %v", err)
	}
	// 10 EUR at 1.1, forward-filled five days.
	if want := M(11, "USD"); !price.Equal(want) {
		t.Errorf("Price(SAP) = %v, want %v", price, want)
	}
	// The base currency needs no rate series.
	if _, err := market.Price("AAPL", jan10); err != nil {
		t.Errorf("Price(AAPL) returned unexpected error: %v", err)
	}
}

func TestFetchMarketData_FirstErrorWins(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	provider := NewMemoryProvider()
	provider.SetCurrency("AAPL", "USD").SetPrice("AAPL", jan10, 100)
	// "MISSING" has no series: the whole fetch must fail, no partial market.

	r := NewRange(NewDate(2024, time.January, 1), NewDate(2024, time.January, 31))
	market, err := FetchMarketData(context.Background(), "USD", []string{"AAPL", "MISSING"}, provider, provider, r)
	var ferr *DataFetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("FetchMarketData() = %v, want a *DataFetchError", err)
	}
	if market != nil {
		t.Error("FetchMarketData() returned a partial market alongside the error")
	}
}

func TestFetchMarketData_MissingRateFails(t *testing.T) {
	jan10 := NewDate(2024, time.January, 10)
	provider := NewMemoryProvider()
	provider.SetCurrency("SAP", "EUR").SetPrice("SAP", jan10, 10)
	// No EUR/USD rate recorded.

	r := NewRange(NewDate(2024, time.January, 1), NewDate(2024, time.January, 31))
	_, err := FetchMarketData(context.Background(), "USD", []string{"SAP"}, provider, provider, r)
	var ferr *DataFetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("FetchMarketData() = %v, want a *DataFetchError", err)
	}
}

func TestMarketData_Rate(t *testing.T) {
	market := NewMarketData("USD")
	market.SetRates("EUR", quantitySeries(map[Date]float64{NewDate(2024, time.January, 10): 1.1}))

	if rate, err := market.Rate("USD", NewDate(2024, time.January, 5)); err != nil || !rate.Equal(Q(1)) {
		t.Errorf("Rate(USD) = %v, %v; want identity 1", rate, err)
	}
	if _, err := market.Rate("EUR", NewDate(2024, time.January, 5)); err == nil {
		t.Error("Rate(EUR) before the series starts expected an error, got nil")
	}
	rate, err := market.Rate("EUR", NewDate(2024, time.February, 1))
	if err != nil {
		t.Fatalf("Rate(EUR) returned unexpected error: %v", err)
	}
	if !rate.Equal(Q(1.1)) {
		t.Errorf("Rate(EUR) = %v, want 1.1 forward-filled", rate)
	}
}
