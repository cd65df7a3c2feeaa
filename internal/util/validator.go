package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	minDailyCalories = decimal.NewFromInt(500)
	maxDailyCalories = decimal.NewFromInt(5000)
)

// ValidateDecimalShape checks that d fits a column with maxDigits total digits
// of which places are after the decimal point.
func ValidateDecimalShape(d decimal.Decimal, maxDigits, places int) error {
	if !d.Equal(d.Truncate(int32(places))) {
		if places == 0 {
			return fmt.Errorf("must be a whole number")
		}
		return fmt.Errorf("no more than %d decimal place(s) allowed", places)
	}
	whole := d.Abs().Truncate(0)
	limit := decimal.New(1, int32(maxDigits-places))
	if whole.GreaterThanOrEqual(limit) {
		return fmt.Errorf("no more than %d digit(s) before the decimal point", maxDigits-places)
	}
	return nil
}

// ValidateNonNegative rejects values below zero.
func ValidateNonNegative(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}

// ValidateQuantity requires a strictly positive gram amount.
func ValidateQuantity(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("quantity must be greater than 0, got %s", d)
	}
	return nil
}

// ValidateCalorieTarget requires a daily target within [500, 5000].
func ValidateCalorieTarget(d decimal.Decimal) error {
	if d.LessThan(minDailyCalories) || d.GreaterThan(maxDailyCalories) {
		return fmt.Errorf("daily calories must be between %s and %s, got %s", minDailyCalories, maxDailyCalories, d)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}
