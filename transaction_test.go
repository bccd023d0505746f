package fintrack

import (
	"testing"
	"time"
)

func TestKind_Signs(t *testing.T) {
	testCases := []struct {
		kind      Kind
		shareSign int
		cashSign  int
	}{
		{kind: Buy, shareSign: 1, cashSign: -1},
		{kind: Sell, shareSign: -1, cashSign: 1},
		{kind: Short, shareSign: -1, cashSign: 1},
		{kind: Cover, shareSign: 1, cashSign: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			if got := tc.kind.ShareSign(); got != tc.shareSign {
				t.Errorf("ShareSign() = %d, want %d", got, tc.shareSign)
			}
			if got := tc.kind.CashSign(); got != tc.cashSign {
				t.Errorf("CashSign() = %d, want %d", got, tc.cashSign)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, in := range []string{"Buy", "buy", " BUY "} {
		kind, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q) returned unexpected error: %v", in, err)
		}
		if kind != Buy {
			t.Errorf("ParseKind(%q) = %v, want Buy", in, kind)
		}
	}
	if _, err := ParseKind("Gift"); err == nil {
		t.Error("ParseKind(\"Gift\") expected an error, got nil")
	}
}

func TestTransaction_SharesAndCashFlow(t *testing.T) {
	on := NewDate(2024, time.January, 10)

	testCases := []struct {
		name      string
		tx        Transaction
		wantShare Quantity
		wantCash  float64
	}{
		{
			name:      "buy spends cash",
			tx:        NewTransaction(on, "AAPL", Buy, 5, 100),
			wantShare: Q(5),
			wantCash:  -500,
		},
		{
			name:      "sell raises cash",
			tx:        NewTransaction(on, "AAPL", Sell, 3, 100),
			wantShare: Q(-3),
			wantCash:  300,
		},
		{
			name:      "short raises cash like a sale",
			tx:        NewTransaction(on, "TSLA", Short, 10, 20),
			wantShare: Q(-10),
			wantCash:  200,
		},
		{
			name:      "cover spends cash like a buy",
			tx:        NewTransaction(on, "TSLA", Cover, 10, 25),
			wantShare: Q(10),
			wantCash:  -250,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tx.Shares(); !got.Equal(tc.wantShare) {
				t.Errorf("Shares() = %v, want %v", got, tc.wantShare)
			}
			if got := tc.tx.CashFlow(); !got.Decimal().Equal(Q(tc.wantCash).Decimal()) {
				t.Errorf("CashFlow() = %v, want %v", got.Decimal(), tc.wantCash)
			}
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	on := NewDate(2024, time.January, 10)

	testCases := []struct {
		name      string
		tx        Transaction
		wantField string
	}{
		{name: "valid", tx: NewTransaction(on, "AAPL", Buy, 5, 100)},
		{name: "free shares are valid", tx: NewTransaction(on, "AAPL", Buy, 5, 0)},
		{name: "missing date", tx: NewTransaction(Date{}, "AAPL", Buy, 5, 100), wantField: "date"},
		{name: "missing ticker", tx: NewTransaction(on, "  ", Buy, 5, 100), wantField: "ticker"},
		{name: "unknown kind", tx: NewTransaction(on, "AAPL", Kind(42), 5, 100), wantField: "type"},
		{name: "zero amount", tx: NewTransaction(on, "AAPL", Buy, 0, 100), wantField: "amount"},
		{name: "negative amount", tx: NewTransaction(on, "AAPL", Buy, -5, 100), wantField: "amount"},
		{name: "fractional amount", tx: NewTransaction(on, "AAPL", Buy, 2.5, 100), wantField: "amount"},
		{name: "negative price", tx: NewTransaction(on, "AAPL", Buy, 5, -1), wantField: "price"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, want a *ValidationError", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}
