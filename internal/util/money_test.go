package util

import "testing"

func TestMoneyRoundTrip(t *testing.T) {
	tests := []struct {
		amount float64
		cents  int64
	}{
		{42.50, 4250},
		{0.01, 1},
		{0.10, 10},
		{100, 10000},
		{19.99, 1999},
		{1234567.89, 123456789},
	}
	for _, tt := range tests {
		if got := ToCents(tt.amount); got != tt.cents {
			t.Errorf("ToCents(%v) = %d, want %d", tt.amount, got, tt.cents)
		}
		if got := FromCents(tt.cents); got != tt.amount {
			t.Errorf("FromCents(%d) = %v, want %v", tt.cents, got, tt.amount)
		}
	}
}

func TestToCentsRounds(t *testing.T) {
	// float noise like 41.99999... must land on the nearest cent
	if got := ToCents(4.2 * 10); got != 4200 {
		t.Errorf("ToCents(4.2*10) = %d, want 4200", got)
	}
}
