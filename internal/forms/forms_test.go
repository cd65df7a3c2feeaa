package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

func validFoodForm() FoodForm {
	return FoodForm{
		Name:            " Apple ",
		Description:     "Fresh apple with skin",
		CaloriesPer100g: "52",
		ProteinPer100g:  "0.3",
		CarbsPer100g:    "13.8",
		FatPer100g:      "0.2",
		FiberPer100g:    "2.4",
		ServingSizeG:    "182",
	}
}

func fieldErrors(t *testing.T, err error) *util.ValidationError {
	t.Helper()
	ve, ok := util.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	return ve
}

func TestFoodForm_Valid(t *testing.T) {
	f := validFoodForm()
	food, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Apple", food.Name)
	assert.Equal(t, "94.6", food.CaloriesPerServing().StringFixed(1))
}

func TestFoodForm_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*FoodForm)
		field string
	}{
		{"blank name", func(f *FoodForm) { f.Name = "  " }, "name"},
		{"negative calories", func(f *FoodForm) { f.CaloriesPer100g = "-1" }, "calories_per_100g"},
		{"negative fiber", func(f *FoodForm) { f.FiberPer100g = "-0.01" }, "fiber_per_100g"},
		{"not a number", func(f *FoodForm) { f.ProteinPer100g = "lots" }, "protein_per_100g"},
		{"too many places", func(f *FoodForm) { f.FatPer100g = "1.234" }, "fat_per_100g"},
		{"too many digits", func(f *FoodForm) { f.CarbsPer100g = "10000" }, "carbs_per_100g"},
		{"serving places", func(f *FoodForm) { f.ServingSizeG = "100.25" }, "serving_size_g"},
		{"missing serving", func(f *FoodForm) { f.ServingSizeG = "" }, "serving_size_g"},
		{"zero serving", func(f *FoodForm) { f.ServingSizeG = "0" }, "serving_size_g"},
		{"negative serving", func(f *FoodForm) { f.ServingSizeG = "-5" }, "serving_size_g"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFoodForm()
			tc.edit(&f)
			food, err := f.Validate()
			assert.Nil(t, food)
			ve := fieldErrors(t, err)
			assert.NotEmpty(t, ve.Field(tc.field))
		})
	}
}

func TestFoodFormFrom(t *testing.T) {
	f := validFoodForm()
	food, err := f.Validate()
	require.NoError(t, err)

	again := FoodFormFrom(food)
	assert.Equal(t, "Apple", again.Name)
	assert.Equal(t, "13.8", again.CarbsPer100g)
	_, err = again.Validate()
	assert.NoError(t, err)
}

func TestEntryForm(t *testing.T) {
	loc := time.FixedZone("test", 2*3600)

	f := EntryForm{Food: "3", QuantityG: "150.5", MealType: "lunch", ConsumedAt: "2024-05-06T12:30"}
	in, err := f.Validate(loc)
	require.NoError(t, err)
	assert.Equal(t, uint(3), in.FoodID)
	assert.Equal(t, "150.5", in.QuantityG.String())
	assert.Equal(t, models.MealLunch, in.MealType)
	assert.Equal(t, time.Date(2024, 5, 6, 12, 30, 0, 0, loc), in.ConsumedAt)

	f.ConsumedAt = ""
	in, err = f.Validate(loc)
	require.NoError(t, err)
	assert.True(t, in.ConsumedAt.IsZero())
}

func TestEntryForm_Invalid(t *testing.T) {
	f := EntryForm{Food: "x", QuantityG: "0", MealType: "brunch", ConsumedAt: "yesterday"}
	_, err := f.Validate(time.UTC)
	ve := fieldErrors(t, err)
	assert.NotEmpty(t, ve.Field("food"))
	assert.NotEmpty(t, ve.Field("quantity_g"))
	assert.NotEmpty(t, ve.Field("meal_type"))
	assert.NotEmpty(t, ve.Field("consumed_at"))
}

func TestQuickEntryForm(t *testing.T) {
	f := QuickEntryForm{FoodName: "banana", QuantityG: "118", MealType: "snack"}
	in, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, "banana", in.FoodName)

	for _, q := range []string{"0", "-5", "", "1.25"} {
		f := QuickEntryForm{FoodName: "banana", QuantityG: q, MealType: "snack"}
		_, err := f.Validate()
		ve := fieldErrors(t, err)
		assert.NotEmpty(t, ve.Field("quantity_g"), "quantity %q", q)
	}
}

func TestGoalForm(t *testing.T) {
	f := GoalForm{DailyCalories: "2200", DailyProtein: "160.5", DailyCarbs: "0", DailyFat: "65"}
	g, err := f.Validate()
	require.NoError(t, err)
	assert.Equal(t, "2200", g.DailyCalories.String())

	for _, kcal := range []string{"499", "5001", "1800.5"} {
		f := GoalForm{DailyCalories: kcal, DailyProtein: "1", DailyCarbs: "1", DailyFat: "1"}
		_, err := f.Validate()
		ve := fieldErrors(t, err)
		assert.NotEmpty(t, ve.Field("daily_calories"), "calories %q", kcal)
	}

	f = GoalForm{DailyCalories: "2000", DailyProtein: "-1", DailyCarbs: "1", DailyFat: "1"}
	_, err = f.Validate()
	assert.NotEmpty(t, fieldErrors(t, err).Field("daily_protein"))
}

func TestRegisterForm(t *testing.T) {
	valid := RegisterForm{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password1: "Str0ngPass",
		Password2: "Str0ngPass",
	}
	f := valid
	assert.NoError(t, f.Validate())

	f = valid
	f.Password2 = "Other0Pass"
	assert.NotEmpty(t, fieldErrors(t, f.Validate()).Field("password2"))

	f = valid
	f.Password1, f.Password2 = "weak", "weak"
	assert.NotEmpty(t, fieldErrors(t, f.Validate()).Field("password1"))

	f = valid
	f.Email = "not-an-email"
	assert.NotEmpty(t, fieldErrors(t, f.Validate()).Field("email"))

	f = valid
	f.Username = "a b"
	assert.NotEmpty(t, fieldErrors(t, f.Validate()).Field("username"))

	f = valid
	f.Username = "Éva.Núñez"
	assert.NoError(t, f.Validate())
}

func TestIsStrongPassword(t *testing.T) {
	strong := []string{"Abcdefg1", "Str0ngPass"}
	weak := []string{"", "short1A", "alllowercase1", "ALLUPPER1", "NoDigitsHere", "Abcdefg1Abcdefg1Abcdefg1Abcdefg1X"}

	for _, p := range strong {
		if !IsStrongPassword(p) {
			t.Errorf("IsStrongPassword(%q) = false, want true", p)
		}
	}
	for _, p := range weak {
		if IsStrongPassword(p) {
			t.Errorf("IsStrongPassword(%q) = true, want false", p)
		}
	}
}
