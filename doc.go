// Package fintrack values a stock portfolio from its transaction log.
//
// The core is a small set of ledgers and time series:
//   - Ledger: an append-only, chronologically ordered transaction log. Buys,
//     sells, shorts and covers fold into signed share positions per ticker
//     (negative means short).
//   - Cash ledger: the base-currency cash balance over time, seeded with an
//     initial amount the day before the first transaction, moved by every
//     trade and by dividends on long positions.
//   - MarketData: step-function price, dividend and exchange-rate series
//     fetched from pluggable providers, with forward-fill lookups so any
//     calendar day has a value once a series has started.
//
// A Tracker ties them together and answers holdings, cash, valuation and
// return queries over arbitrary date ranges. All computations are
// deterministic given the same transaction log and market data.
package fintrack
