package nutrition

import (
	"testing"
	"time"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 7; d++ {
		ref := monday.AddDate(0, 0, d).Add(15*time.Hour + 30*time.Minute)
		assert.Equal(t, monday, WeekStart(ref), ref.Weekday().String())
	}
	assert.Equal(t, monday.AddDate(0, 0, 7), WeekStart(monday.AddDate(0, 0, 7)))
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	start, end := DayBounds(time.Date(2024, 5, 15, 23, 59, 0, 0, loc))

	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 5, 16, 0, 0, 0, 0, loc), end)
}

func TestWeeklyRollup_Empty(t *testing.T) {
	ref := time.Date(2024, 5, 19, 12, 0, 0, 0, time.UTC) // Sunday

	w := WeeklyRollup(nil, ref)

	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Totals.Equal(Totals{}))
	for i, d := range w.Days {
		assert.Zero(t, d.EntryCount)
		assert.True(t, d.Totals.Calories.IsZero())
		assert.Equal(t, w.Start.AddDate(0, 0, i), d.Date)
	}
	assert.Equal(t, "Monday", w.Days[0].Name)
	assert.Equal(t, "Sunday", w.Days[6].Name)
}

func TestWeeklyRollup_BucketsByDay(t *testing.T) {
	ref := time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC) // Wednesday
	entries := []models.FoodEntry{
		entry(apple, "100", models.MealBreakfast, time.Date(2024, 5, 13, 7, 0, 0, 0, time.UTC)),
		entry(oats, "40", models.MealBreakfast, time.Date(2024, 5, 13, 7, 5, 0, 0, time.UTC)),
		entry(apple, "182", models.MealSnack, time.Date(2024, 5, 17, 16, 0, 0, 0, time.UTC)),
		entry(oats, "60", models.MealDinner, time.Date(2024, 5, 19, 23, 59, 0, 0, time.UTC)),
		// outside the window
		entry(apple, "500", models.MealLunch, time.Date(2024, 5, 12, 23, 59, 0, 0, time.UTC)),
		entry(apple, "500", models.MealLunch, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)),
	}

	w := WeeklyRollup(entries, ref)

	counts := make([]int, 7)
	for i, d := range w.Days {
		counts[i] = d.EntryCount
	}
	assert.Equal(t, []int{2, 0, 0, 0, 1, 0, 1}, counts)
	// Monday: apple 52.0 + oats 155.6
	assert.True(t, w.Days[0].Totals.Calories.Equal(dec("207.6")), w.Days[0].Totals.Calories.String())
	assert.True(t, w.Days[4].Totals.Calories.Equal(dec("94.6")))
}

func TestWeeklyRollup_DailyTotalsSumToWeekTotal(t *testing.T) {
	ref := time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)
	start := WeekStart(ref)
	var entries []models.FoodEntry
	grams := []string{"12.3", "45.6", "78.9", "100", "0.1", "33.3", "250"}
	for i := 0; i < 30; i++ {
		food := apple
		if i%3 == 0 {
			food = oats
		}
		at := start.Add(time.Duration(i*5+1) * time.Hour)
		entries = append(entries, entry(food, grams[i%len(grams)], models.MealTypes[i%4], at))
	}

	w := WeeklyRollup(entries, ref)

	var sum Totals
	total := 0
	for _, d := range w.Days {
		sum = sum.Add(d.Totals)
		total += d.EntryCount
	}
	assert.True(t, sum.Equal(w.Totals))
	assert.True(t, Sum(entries).Equal(w.Totals))
	assert.Equal(t, len(entries), total)
}

func TestWeeklyRollup_UsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ref := time.Date(2024, 5, 15, 9, 0, 0, 0, loc)
	// Sunday 23:30 UTC is already Monday in UTC+2.
	e := entry(apple, "100", models.MealBreakfast, time.Date(2024, 5, 12, 23, 30, 0, 0, time.UTC))

	w := WeeklyRollup([]models.FoodEntry{e}, ref)

	require.Equal(t, 1, w.Days[0].EntryCount)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, loc), w.Start)
}
