package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ScalePer100g converts a per-100g density into the amount contained in grams
// of the food, rounded half-to-even to one decimal place.
func ScalePer100g(density, grams decimal.Decimal) decimal.Decimal {
	return density.Mul(grams).Div(hundred).RoundBank(1)
}

// Food is a catalog item. Nutrient values are per 100 grams.
type Food struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:200;uniqueIndex;not null"`
	Description string `gorm:"type:text"`

	CaloriesPer100g decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	ProteinPer100g  decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	CarbsPer100g    decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	FatPer100g      decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	FiberPer100g    decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`

	// Common serving size in grams.
	ServingSizeG decimal.Decimal `gorm:"type:decimal(6,1);not null;default:100"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (f *Food) CaloriesPerServing() decimal.Decimal {
	return ScalePer100g(f.CaloriesPer100g, f.ServingSizeG)
}

func (f *Food) ProteinPerServing() decimal.Decimal {
	return ScalePer100g(f.ProteinPer100g, f.ServingSizeG)
}
