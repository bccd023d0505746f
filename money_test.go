package fintrack

import "testing"

func TestMoney_WeakCurrencyBinding(t *testing.T) {
	// The zero Money has no currency and takes the other operand's.
	got := Money{}.Add(M(500, "USD"))
	if got.Currency() != "USD" {
		t.Errorf("Add() currency = %q, want %q", got.Currency(), "USD")
	}
	if !got.Equal(M(500, "USD")) {
		t.Errorf("Add() = %v, want %v", got, M(500, "USD"))
	}
}

func TestMoney_Mul(t *testing.T) {
	got := M(120.5, "USD").Mul(Q(-10))
	if !got.Equal(M(-1205, "USD")) {
		t.Errorf("Mul() = %v, want %v", got, M(-1205, "USD"))
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		money Money
		want  string
	}{
		{M(1100, "USD"), "$1,100.00"},
		{M(-42.5, "EUR"), "-€42.50"},
		{M(1000, "JPY"), "¥1,000"},
	}
	for _, tt := range tests {
		if got := tt.money.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPercent_String(t *testing.T) {
	if got := Percent(2.5).String(); got != "2.50%" {
		t.Errorf("String() = %q, want %q", got, "2.50%")
	}
	if got := Percent(-5).SignedString(); got != "-5.00%" {
		t.Errorf("SignedString() = %q, want %q", got, "-5.00%")
	}
	if got := Percent(10).SignedString(); got != "+10.00%" {
		t.Errorf("SignedString() = %q, want %q", got, "+10.00%")
	}
}
