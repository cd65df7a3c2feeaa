package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

// DateTimeLocal is the layout of an <input type="datetime-local"> value.
const DateTimeLocal = "2006-01-02T15:04"

// EntryForm logs a food picked from the catalog.
type EntryForm struct {
	Food       string `form:"food"`
	QuantityG  string `form:"quantity_g"`
	MealType   string `form:"meal_type"`
	ConsumedAt string `form:"consumed_at"`
}

// NewEntryForm returns the blank form with consumed_at set to now.
func NewEntryForm(now time.Time) EntryForm {
	return EntryForm{
		MealType:   models.MealBreakfast,
		ConsumedAt: now.Format(DateTimeLocal),
	}
}

// EntryInput is a validated log request.
type EntryInput struct {
	FoodID    uint
	FoodName  string
	QuantityG decimal.Decimal
	MealType  string
	// ConsumedAt is zero when the form left it blank.
	ConsumedAt time.Time
}

// Validate parses the form. consumed_at is interpreted in loc.
func (f *EntryForm) Validate(loc *time.Location) (*EntryInput, error) {
	ve := &util.ValidationError{}
	in := &EntryInput{}

	if raw := strings.TrimSpace(f.Food); raw == "" {
		ve.Add("food", requiredMsg)
	} else if id, err := strconv.ParseUint(raw, 10, 64); err != nil || id == 0 {
		ve.Add("food", "Select a valid choice. That choice is not one of the available choices.")
	} else {
		in.FoodID = uint(id)
	}

	in.QuantityG = quantity(ve, "quantity_g", f.QuantityG)
	in.MealType = mealType(ve, f.MealType)

	if raw := strings.TrimSpace(f.ConsumedAt); raw != "" {
		t, err := time.ParseInLocation(DateTimeLocal, raw, loc)
		if err != nil {
			ve.Add("consumed_at", "Enter a valid date/time.")
		} else {
			in.ConsumedAt = t
		}
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return in, nil
}

// QuickEntryForm logs a food by typing its name.
type QuickEntryForm struct {
	FoodName  string `form:"food_name"`
	QuantityG string `form:"quantity_g"`
	MealType  string `form:"meal_type"`
}

// Validate parses the form. The food name is resolved later by the handler.
func (f *QuickEntryForm) Validate() (*EntryInput, error) {
	ve := &util.ValidationError{}
	in := &EntryInput{
		FoodName:  requiredString(ve, "food_name", f.FoodName, 200),
		QuantityG: quantity(ve, "quantity_g", f.QuantityG),
		MealType:  mealType(ve, f.MealType),
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return in, nil
}

func mealType(ve *util.ValidationError, raw string) string {
	m := strings.TrimSpace(raw)
	switch {
	case m == "":
		ve.Add("meal_type", requiredMsg)
	case !models.ValidMealType(m):
		ve.Add("meal_type", "Select a valid choice. "+m+" is not one of the available choices.")
	}
	return m
}
