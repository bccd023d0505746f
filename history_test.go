package fintrack

import (
	"testing"
	"time"
)

func TestHistory_AppendKeepsOrder(t *testing.T) {
	h := &History[float64]{}
	h.Append(NewDate(2024, time.January, 10), 10)
	h.Append(NewDate(2024, time.January, 2), 2)
	h.Append(NewDate(2024, time.January, 5), 5)

	var days []Date
	for on := range h.Values() {
		days = append(days, on)
	}
	want := []Date{
		NewDate(2024, time.January, 2),
		NewDate(2024, time.January, 5),
		NewDate(2024, time.January, 10),
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("Values()[%d] = %v, want %v", i, days[i], want[i])
		}
	}
}

func TestHistory_AppendOverwritesSameDay(t *testing.T) {
	h := &History[float64]{}
	on := NewDate(2024, time.January, 5)
	h.Append(on, 1)
	h.Append(on, 2)

	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if got, _ := h.Get(on); got != 2 {
		t.Errorf("Get() = %v, want 2 (last write wins)", got)
	}
}

func TestHistory_ValueAsOf(t *testing.T) {
	h := &History[float64]{}
	h.Append(NewDate(2024, time.January, 5), 100)
	h.Append(NewDate(2024, time.January, 10), 120)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOK bool
	}{
		{name: "before first point", on: NewDate(2024, time.January, 4), wantOK: false},
		{name: "exactly on a point", on: NewDate(2024, time.January, 5), want: 100, wantOK: true},
		{name: "between points carries forward", on: NewDate(2024, time.January, 7), want: 100, wantOK: true},
		{name: "on second point", on: NewDate(2024, time.January, 10), want: 120, wantOK: true},
		{name: "after last point carries forward", on: NewDate(2024, time.March, 1), want: 120, wantOK: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if ok != tc.wantOK {
				t.Fatalf("ValueAsOf(%v) ok = %v, want %v", tc.on, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("ValueAsOf(%v) = %v, want %v", tc.on, got, tc.want)
			}
		})
	}
}

func TestHistory_FirstAndLatest(t *testing.T) {
	h := &History[string]{}
	if _, v := h.Latest(); v != "" {
		t.Errorf("Latest() on empty history = %q, want zero value", v)
	}

	h.Append(NewDate(2024, time.January, 5), "a")
	h.Append(NewDate(2024, time.January, 9), "b")

	if on, v := h.First(); on != NewDate(2024, time.January, 5) || v != "a" {
		t.Errorf("First() = %v %q, want 2024-01-05 \"a\"", on, v)
	}
	if on, v := h.Latest(); on != NewDate(2024, time.January, 9) || v != "b" {
		t.Errorf("Latest() = %v %q, want 2024-01-09 \"b\"", on, v)
	}
}
