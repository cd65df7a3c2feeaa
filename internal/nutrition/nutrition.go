// Package nutrition aggregates logged food entries into daily and weekly
// totals. It works on already-loaded entries and never touches the database.
package nutrition

import (
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Nutrient keys used by Progress.
const (
	Calories = "calories"
	Protein  = "protein"
	Carbs    = "carbs"
	Fat      = "fat"
)

// Totals holds summed macro-nutrients. The zero value is all zeros.
type Totals struct {
	Calories decimal.Decimal `json:"calories"`
	Protein  decimal.Decimal `json:"protein"`
	Carbs    decimal.Decimal `json:"carbs"`
	Fat      decimal.Decimal `json:"fat"`
}

// Add returns the per-nutrient sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories.Add(o.Calories),
		Protein:  t.Protein.Add(o.Protein),
		Carbs:    t.Carbs.Add(o.Carbs),
		Fat:      t.Fat.Add(o.Fat),
	}
}

// Equal compares all four nutrients by value.
func (t Totals) Equal(o Totals) bool {
	return t.Calories.Equal(o.Calories) &&
		t.Protein.Equal(o.Protein) &&
		t.Carbs.Equal(o.Carbs) &&
		t.Fat.Equal(o.Fat)
}

// EntryTotals is what a single entry contributes. Each value is already
// rounded to one decimal place.
func EntryTotals(e *models.FoodEntry) Totals {
	return Totals{
		Calories: e.CaloriesConsumed(),
		Protein:  e.ProteinConsumed(),
		Carbs:    e.CarbsConsumed(),
		Fat:      e.FatConsumed(),
	}
}

// Sum adds up the rounded contributions of entries. The result is not
// rounded again.
func Sum(entries []models.FoodEntry) Totals {
	var t Totals
	for i := range entries {
		t = t.Add(EntryTotals(&entries[i]))
	}
	return t
}

// Progress maps a nutrient key to the percentage of its daily target reached,
// capped at 100. Nutrients without a positive target are absent.
type Progress map[string]float64

var hundred = decimal.NewFromInt(100)

// GoalProgress compares totals against goal. A nil goal yields empty progress.
func GoalProgress(t Totals, goal *models.NutritionalGoal) Progress {
	p := Progress{}
	if goal == nil {
		return p
	}
	set := func(key string, total, target decimal.Decimal) {
		if !target.IsPositive() {
			return
		}
		pct := total.Div(target).Mul(hundred).InexactFloat64()
		if pct > 100 {
			pct = 100
		}
		p[key] = pct
	}
	set(Calories, t.Calories, goal.DailyCalories)
	set(Protein, t.Protein, goal.DailyProtein)
	set(Carbs, t.Carbs, goal.DailyCarbs)
	set(Fat, t.Fat, goal.DailyFat)
	return p
}

// Meals partitions entries by meal type. Every meal type is present.
type Meals map[string][]models.FoodEntry

// GroupByMeal keeps the input order inside each meal. Entries with an
// unknown meal type are dropped.
func GroupByMeal(entries []models.FoodEntry) Meals {
	m := make(Meals, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		m[mt] = []models.FoodEntry{}
	}
	for _, e := range entries {
		if list, ok := m[e.MealType]; ok {
			m[e.MealType] = append(list, e)
		}
	}
	return m
}
