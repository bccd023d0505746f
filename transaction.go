package fintrack

import (
	"fmt"
	"strings"
)

// Kind identifies the effect of a transaction on the position.
type Kind int

const (
	Buy   Kind = iota // open or increase a long position
	Sell              // reduce or close a long position
	Short             // open or increase a short position
	Cover             // reduce or close a short position
)

// ParseKind parses a transaction kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	case "short":
		return Short, nil
	case "cover":
		return Cover, nil
	default:
		return 0, fmt.Errorf("unknown transaction type %q", s)
	}
}

func (k Kind) String() string {
	switch k {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case Short:
		return "Short"
	case Cover:
		return "Cover"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ShareSign returns the sign applied to the share count:
// Buy and Cover add shares, Sell and Short remove them.
func (k Kind) ShareSign() int {
	switch k {
	case Buy, Cover:
		return 1
	case Sell, Short:
		return -1
	default:
		return 0
	}
}

// CashSign returns the sign applied to the cash flow, always the opposite
// of the share sign: acquiring shares costs cash, disposing raises it.
func (k Kind) CashSign() int { return -k.ShareSign() }

// Transaction is a single entry of the transaction log.
type Transaction struct {
	Date   Date
	Ticker string
	Kind   Kind
	Amount Quantity // whole share count, strictly positive
	Price  Money    // execution price per share, in the ticker's native currency
}

// NewTransaction builds a transaction; Validate checks it.
func NewTransaction(on Date, ticker string, kind Kind, amount, price float64) Transaction {
	return Transaction{Date: on, Ticker: ticker, Kind: kind, Amount: Q(amount), Price: M(price, "")}
}

// When returns the transaction date, the primary ordering key of the ledger.
func (t Transaction) When() Date { return t.Date }

// Shares returns the signed share delta of the transaction.
func (t Transaction) Shares() Quantity {
	if t.Kind.ShareSign() < 0 {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CashFlow returns the signed cash movement in the transaction's native
// currency: negative for Buy and Cover, positive for Sell and Short.
func (t Transaction) CashFlow() Money {
	flow := t.Price.Mul(t.Amount)
	if t.Kind.CashSign() < 0 {
		return flow.Neg()
	}
	return flow
}

// Validate checks the transaction fields. It does not look at the position:
// a Sell may cross through zero into a short and a Cover through zero into
// a long, the ledger folds them all into one signed count.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "missing"}
	}
	if strings.TrimSpace(t.Ticker) == "" {
		return &ValidationError{Field: "ticker", Reason: "missing"}
	}
	switch t.Kind {
	case Buy, Sell, Short, Cover:
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown kind %d", int(t.Kind))}
	}
	if !t.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be strictly positive"}
	}
	if !t.Amount.Decimal().IsInteger() {
		return &ValidationError{Field: "amount", Reason: "must be a whole number of shares"}
	}
	if t.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", t.Date, t.Kind, t.Amount, t.Ticker, t.Price.Decimal())
}
