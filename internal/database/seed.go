package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/models"
)

// SampleFoods is the starter catalog loaded by LoadSampleFoods.
// Columns: name, description, calories, protein, carbs, fat, fiber (per 100g), serving size (g).
var SampleFoods = []models.Food{
	sampleFood("Banana", "Fresh banana, medium size", "89", "1.1", "22.8", "0.3", "2.6", "118"),
	sampleFood("Chicken Breast", "Cooked, skinless chicken breast", "231", "43.5", "0", "5.0", "0", "100"),
	sampleFood("Brown Rice", "Cooked brown rice", "112", "2.6", "23", "0.9", "1.8", "150"),
	sampleFood("Apple", "Fresh apple with skin", "52", "0.3", "13.8", "0.2", "2.4", "182"),
	sampleFood("Broccoli", "Raw broccoli florets", "34", "2.8", "7", "0.4", "2.6", "100"),
	sampleFood("Salmon", "Atlantic salmon, cooked", "231", "25.4", "0", "13.4", "0", "100"),
	sampleFood("Oats", "Rolled oats, dry", "389", "16.9", "66.3", "6.9", "10.6", "40"),
	sampleFood("Greek Yogurt", "Plain, non-fat Greek yogurt", "59", "10.3", "3.6", "0.4", "0", "170"),
	sampleFood("Avocado", "Raw avocado", "160", "2", "8.5", "14.7", "6.7", "150"),
	sampleFood("Sweet Potato", "Baked sweet potato with skin", "90", "2", "20.7", "0.2", "3.3", "130"),
	sampleFood("Almonds", "Raw almonds", "579", "21.2", "21.6", "49.9", "12.5", "28"),
	sampleFood("Quinoa", "Cooked quinoa", "120", "4.4", "21.3", "1.9", "2.8", "150"),
}

func sampleFood(name, desc, kcal, protein, carbs, fat, fiber, serving string) models.Food {
	return models.Food{
		Name:            name,
		Description:     desc,
		CaloriesPer100g: decimal.RequireFromString(kcal),
		ProteinPer100g:  decimal.RequireFromString(protein),
		CarbsPer100g:    decimal.RequireFromString(carbs),
		FatPer100g:      decimal.RequireFromString(fat),
		FiberPer100g:    decimal.RequireFromString(fiber),
		ServingSizeG:    decimal.RequireFromString(serving),
	}
}

// SeedFunc is told about every sample food, and whether it was newly created.
type SeedFunc func(name string, created bool)

// LoadSampleFoods inserts each of SampleFoods whose name is not yet in the
// catalog and leaves existing rows untouched. It returns how many were created.
func LoadSampleFoods(ctx context.Context, db *gorm.DB, report SeedFunc) (int, error) {
	created := 0
	for _, sample := range SampleFoods {
		sample := sample
		var food models.Food
		res := db.WithContext(ctx).
			Where("name = ?", sample.Name).
			Attrs(sample).
			FirstOrCreate(&food)
		if res.Error != nil {
			return created, fmt.Errorf("seed %q: %w", sample.Name, res.Error)
		}
		isNew := res.RowsAffected > 0
		if isNew {
			created++
		}
		if report != nil {
			report(food.Name, isNew)
		}
	}
	return created, nil
}
