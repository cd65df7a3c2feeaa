package forms

import (
	"strings"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

// FoodForm adds or edits a catalog food.
type FoodForm struct {
	Name            string `form:"name"`
	Description     string `form:"description"`
	CaloriesPer100g string `form:"calories_per_100g"`
	ProteinPer100g  string `form:"protein_per_100g"`
	CarbsPer100g    string `form:"carbs_per_100g"`
	FatPer100g      string `form:"fat_per_100g"`
	FiberPer100g    string `form:"fiber_per_100g"`
	ServingSizeG    string `form:"serving_size_g"`
}

// NewFoodForm returns the blank form with the model defaults filled in.
func NewFoodForm() FoodForm {
	return FoodForm{
		CaloriesPer100g: "0",
		ProteinPer100g:  "0",
		CarbsPer100g:    "0",
		FatPer100g:      "0",
		FiberPer100g:    "0",
		ServingSizeG:    "100",
	}
}

// FoodFormFrom pre-fills the form from an existing food.
func FoodFormFrom(f *models.Food) FoodForm {
	return FoodForm{
		Name:            f.Name,
		Description:     f.Description,
		CaloriesPer100g: f.CaloriesPer100g.String(),
		ProteinPer100g:  f.ProteinPer100g.String(),
		CarbsPer100g:    f.CarbsPer100g.String(),
		FatPer100g:      f.FatPer100g.String(),
		FiberPer100g:    f.FiberPer100g.String(),
		ServingSizeG:    f.ServingSizeG.String(),
	}
}

// Validate returns an unsaved food built from the form.
func (f *FoodForm) Validate() (*models.Food, error) {
	ve := &util.ValidationError{}
	food := &models.Food{
		Name:            requiredString(ve, "name", f.Name, 200),
		Description:     strings.TrimSpace(f.Description),
		CaloriesPer100g: nonNegative(ve, "calories_per_100g", f.CaloriesPer100g, 6, 2),
		ProteinPer100g:  nonNegative(ve, "protein_per_100g", f.ProteinPer100g, 6, 2),
		CarbsPer100g:    nonNegative(ve, "carbs_per_100g", f.CarbsPer100g, 6, 2),
		FatPer100g:      nonNegative(ve, "fat_per_100g", f.FatPer100g, 6, 2),
		FiberPer100g:    nonNegative(ve, "fiber_per_100g", f.FiberPer100g, 6, 2),
		ServingSizeG:    positiveGrams(ve, "serving_size_g", f.ServingSizeG, servingSizeMsg),
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return food, nil
}
