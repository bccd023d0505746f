package fintrack

import "fmt"

// The error types below partition every failure mode of the engine:
// bad input, a provider that could not deliver, a series that has not
// started yet, and an internal computation that cannot proceed.
// Callers dispatch with errors.As.

// ValidationError reports a transaction that failed structural validation
// before reaching any ledger.
type ValidationError struct {
	Line   int    // 1-based position in the input, 0 when unknown
	Field  string // offending field, may be empty
	Reason string
}

func (e *ValidationError) Error() string {
	msg := "invalid transaction"
	if e.Line > 0 {
		msg = fmt.Sprintf("invalid transaction %d", e.Line)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", msg, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", msg, e.Reason)
}

// DataFetchError reports a provider failure: network, decoding, or an
// unknown symbol. It wraps the underlying cause.
type DataFetchError struct {
	Provider string // provider name, e.g. "yahoo"
	Symbol   string // ticker or currency pair
	Err      error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("%s: fetching %q: %v", e.Provider, e.Symbol, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// PriceUnavailableError reports that a price or exchange-rate series has no
// value on or before the requested date, so forward-fill has nothing to
// carry. It only occurs before a series starts; after that every calendar
// day resolves.
type PriceUnavailableError struct {
	Symbol string // ticker or currency pair
	On     Date
}

func (e *PriceUnavailableError) Error() string {
	return fmt.Sprintf("no price for %q on or before %s", e.Symbol, e.On)
}

// ComputationError reports a derived computation that cannot proceed, like
// querying a tracker that has never been refreshed.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
