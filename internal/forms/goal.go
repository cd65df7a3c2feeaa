package forms

import (
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

// GoalForm edits a user's daily targets.
type GoalForm struct {
	DailyCalories string `form:"daily_calories"`
	DailyProtein  string `form:"daily_protein"`
	DailyCarbs    string `form:"daily_carbs"`
	DailyFat      string `form:"daily_fat"`
}

// GoalFormFrom pre-fills the form from g.
func GoalFormFrom(g *models.NutritionalGoal) GoalForm {
	return GoalForm{
		DailyCalories: g.DailyCalories.String(),
		DailyProtein:  g.DailyProtein.String(),
		DailyCarbs:    g.DailyCarbs.String(),
		DailyFat:      g.DailyFat.String(),
	}
}

// Validate returns the targets as an unsaved goal.
func (f *GoalForm) Validate() (*models.NutritionalGoal, error) {
	ve := &util.ValidationError{}

	before := len(ve.Errors)
	kcal := decimalField(ve, "daily_calories", f.DailyCalories, 6, 0)
	if len(ve.Errors) == before {
		if err := util.ValidateCalorieTarget(kcal); err != nil {
			ve.Add("daily_calories", "Ensure this value is between 500 and 5000.")
		}
	}

	g := &models.NutritionalGoal{
		DailyCalories: kcal,
		DailyProtein:  nonNegative(ve, "daily_protein", f.DailyProtein, 6, 1),
		DailyCarbs:    nonNegative(ve, "daily_carbs", f.DailyCarbs, 6, 1),
		DailyFat:      nonNegative(ve, "daily_fat", f.DailyFat, 6, 1),
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return g, nil
}
