// Package forms binds and validates the HTML forms posted to the handlers.
// Each form keeps the raw submitted strings so an invalid form can be
// re-rendered exactly as the user typed it.
package forms

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/developer-az/food-tracker/internal/util"
)

const (
	requiredMsg    = "This field is required."
	servingSizeMsg = "Serving size must be greater than 0."
)

// decimalField parses raw into a decimal limited to maxDigits digits with
// places after the point. Problems are recorded on ve under field.
func decimalField(ve *util.ValidationError, field, raw string, maxDigits, places int) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		ve.Add(field, requiredMsg)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		ve.Add(field, "Enter a number.")
		return decimal.Zero
	}
	if err := util.ValidateDecimalShape(d, maxDigits, places); err != nil {
		ve.Add(field, err.Error())
	}
	return d
}

// nonNegative parses a decimal field that may not be below zero.
func nonNegative(ve *util.ValidationError, field, raw string, maxDigits, places int) decimal.Decimal {
	before := len(ve.Errors)
	d := decimalField(ve, field, raw, maxDigits, places)
	if len(ve.Errors) == before {
		if err := util.ValidateNonNegative(d); err != nil {
			ve.Add(field, "Ensure this value is greater than or equal to 0.")
		}
	}
	return d
}

// quantity parses a positive gram amount with one decimal place.
func quantity(ve *util.ValidationError, field, raw string) decimal.Decimal {
	return positiveGrams(ve, field, raw, "Quantity must be greater than 0.")
}

func positiveGrams(ve *util.ValidationError, field, raw, msg string) decimal.Decimal {
	before := len(ve.Errors)
	d := decimalField(ve, field, raw, 6, 1)
	if len(ve.Errors) == before {
		if err := util.ValidateQuantity(d); err != nil {
			ve.Add(field, msg)
		}
	}
	return d
}

func requiredString(ve *util.ValidationError, field, raw string, maxLen int) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		ve.Add(field, requiredMsg)
		return s
	}
	if maxLen > 0 && len([]rune(s)) > maxLen {
		ve.Add(field, "Ensure this value has at most "+strconv.Itoa(maxLen)+" characters.")
	}
	return s
}
