package util

import "math"

// Amounts are stored in integer cents; the API speaks two-decimal JSON
// numbers. 42.5 -> 4250 -> 42.5 round-trips exactly.

// ToCents converts a decimal currency amount to cents.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts cents back to a decimal currency amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
