package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/nutrition"
	"github.com/developer-az/food-tracker/internal/testutil"
)

func newSummary(t *testing.T) (*SummaryService, *EntryService, *GoalService) {
	db := testutil.NewDB(t)
	entries := NewEntryService(db, testutil.Logger(), time.UTC)
	goals := NewGoalService(db, testutil.Logger())
	return NewSummaryService(entries, goals, 5), entries, goals
}

func TestSummaryService_DailyEmpty(t *testing.T) {
	svc, entries, _ := newSummary(t)
	db := entries.db
	user := testutil.CreateUser(t, db, "alice")

	sum, err := svc.Daily(context.Background(), user.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, sum.Totals.Equal(nutrition.Totals{}))
	require.NotNil(t, sum.Goal, "dashboard creates the default goal")
	assert.Equal(t, 0.0, sum.Progress[nutrition.Calories])
	assert.Len(t, sum.Meals, 4)
	assert.Empty(t, sum.Recent)
}

func TestSummaryService_Daily(t *testing.T) {
	svc, entries, goals := newSummary(t)
	db := entries.db
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	apple := testutil.CreateFood(t, db, "Apple", "52", "0.3")
	banana := testutil.CreateFood(t, db, "Banana", "89", "1.1")
	now := time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)

	_, err := goals.Update(ctx, user.ID, &models.NutritionalGoal{
		DailyCalories: dec("500"), DailyProtein: dec("0"), DailyCarbs: dec("100"), DailyFat: dec("10"),
	})
	require.NoError(t, err)

	add := func(f *models.Food, q, meal string, at time.Time) {
		_, err := entries.Create(ctx, NewEntry{UserID: user.ID, FoodID: f.ID, QuantityG: dec(q), MealType: meal, ConsumedAt: at}, now)
		require.NoError(t, err)
	}
	add(apple, "182", models.MealBreakfast, now.Add(-10*time.Hour))
	add(banana, "118", models.MealSnack, now.Add(-1*time.Hour))
	add(banana, "500", models.MealDinner, now.Add(-24*time.Hour)) // yesterday

	sum, err := svc.Daily(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, "199.6", sum.Totals.Calories.String()) // 94.6 + 105
	assert.Equal(t, "1.8", sum.Totals.Protein.String())    // 0.5 + 1.3
	assert.InDelta(t, 39.92, sum.Progress[nutrition.Calories], 1e-9)
	_, hasProtein := sum.Progress[nutrition.Protein]
	assert.False(t, hasProtein, "zero targets are omitted")
	assert.Len(t, sum.Meals[models.MealBreakfast], 1)
	assert.Len(t, sum.Meals[models.MealSnack], 1)
	assert.Empty(t, sum.Meals[models.MealDinner])
	assert.Len(t, sum.Recent, 3)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), sum.Date)
}

func TestSummaryService_Weekly(t *testing.T) {
	svc, entries, _ := newSummary(t)
	db := entries.db
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	apple := testutil.CreateFood(t, db, "Apple", "52", "0.3")
	wed := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{
		time.Date(2024, 1, 8, 7, 0, 0, 0, time.UTC),   // Monday
		time.Date(2024, 1, 14, 21, 0, 0, 0, time.UTC), // Sunday
		time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC),  // next Monday
		time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC),  // previous Sunday
	} {
		_, err := entries.Create(ctx, NewEntry{UserID: user.ID, FoodID: apple.ID, QuantityG: dec("100"), MealType: "lunch", ConsumedAt: at}, at)
		require.NoError(t, err)
	}

	w, err := svc.Weekly(ctx, user.ID, wed)
	require.NoError(t, err)
	assert.Nil(t, w.Goal, "weekly view never creates a goal")
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, 1, w.Days[0].EntryCount)
	assert.Equal(t, 1, w.Days[6].EntryCount)
	assert.Equal(t, "Monday", w.Days[0].Name)
	assert.Equal(t, "104", w.Totals.Calories.String())
}
