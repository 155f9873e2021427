package util

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ValidateAmount checks a currency amount: positive and under the cap.
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %f", amount)
	}
	if amount >= 10000000 { // cap at ten million
		return fmt.Errorf("amount too large, got %f", amount)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, want YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// ValidateDate checks that a date string is YYYY-MM-DD.
func ValidateDate(dateStr string) error {
	_, err := ParseDate(dateStr)
	return err
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
