package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyFormatting(t *testing.T) {
	if got := (Money{Cents: 12034}).Decimal(); got != "120.34" {
		t.Fatalf("Decimal = %q", got)
	}
	if got := (Money{Cents: -5}).Decimal(); got != "-0.05" {
		t.Fatalf("Decimal = %q", got)
	}
	if got := (Money{Cents: 90000}).Euros(); got != 900 {
		t.Fatalf("Euros = %v", got)
	}
	if got := FromFloat(120.5); got.Cents != 12050 {
		t.Fatalf("FromFloat = %d", got.Cents)
	}
	if got := FromFloat(-1.25); got.Cents != -125 {
		t.Fatalf("FromFloat negative = %d", got.Cents)
	}
}
