package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealTypes lists the meal categories in display order.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ValidMealType reports whether s is one of MealTypes.
func ValidMealType(s string) bool {
	for _, m := range MealTypes {
		if m == s {
			return true
		}
	}
	return false
}

// FoodEntry is one logged consumption of a catalog food.
// Entries are append-only.
type FoodEntry struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"index;not null"`
	FoodID     uint            `gorm:"index;not null"`
	QuantityG  decimal.Decimal `gorm:"type:decimal(6,1);not null"`
	MealType   string          `gorm:"size:20;not null;default:breakfast"`
	ConsumedAt time.Time       `gorm:"index;not null"`
	CreatedAt  time.Time

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Food Food `gorm:"constraint:OnDelete:CASCADE"`
}

func (e *FoodEntry) CaloriesConsumed() decimal.Decimal {
	return ScalePer100g(e.Food.CaloriesPer100g, e.QuantityG)
}

func (e *FoodEntry) ProteinConsumed() decimal.Decimal {
	return ScalePer100g(e.Food.ProteinPer100g, e.QuantityG)
}

func (e *FoodEntry) CarbsConsumed() decimal.Decimal {
	return ScalePer100g(e.Food.CarbsPer100g, e.QuantityG)
}

func (e *FoodEntry) FatConsumed() decimal.Decimal {
	return ScalePer100g(e.Food.FatPer100g, e.QuantityG)
}
