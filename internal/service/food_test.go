package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/testutil"
	"github.com/developer-az/food-tracker/internal/util"
)

var dec = testutil.Dec

func newFood(name, kcal string) *models.Food {
	return &models.Food{
		Name:            name,
		CaloriesPer100g: dec(kcal),
		ProteinPer100g:  dec("1"),
		CarbsPer100g:    dec("2"),
		FatPer100g:      dec("0.5"),
		FiberPer100g:    dec("0"),
		ServingSizeG:    dec("100"),
	}
}

func TestFoodService_Create(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFoodService(db, testutil.Logger())
	ctx := context.Background()

	f := newFood("Banana", "89")
	require.NoError(t, svc.Create(ctx, f))
	assert.NotZero(t, f.ID)

	err := svc.Create(ctx, newFood("Banana", "90"))
	require.True(t, errors.Is(err, util.ErrValidation))
	ve, _ := util.AsValidation(err)
	assert.NotEmpty(t, ve.Field("name"))

	neg := newFood("Bad", "-1")
	neg.FatPer100g = dec("-0.1")
	err = svc.Create(ctx, neg)
	ve, ok := util.AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Field("calories_per_100g"))
	assert.NotEmpty(t, ve.Field("fat_per_100g"))

	zero := newFood("Air", "0")
	zero.ServingSizeG = dec("0")
	ve, ok = util.AsValidation(svc.Create(ctx, zero))
	require.True(t, ok)
	assert.NotEmpty(t, ve.Field("serving_size_g"))

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "rejected foods are not stored")
}

func TestFoodService_Update(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFoodService(db, testutil.Logger())
	ctx := context.Background()

	apple := newFood("Apple", "52")
	require.NoError(t, svc.Create(ctx, apple))
	require.NoError(t, svc.Create(ctx, newFood("Pear", "57")))

	in := newFood("Green Apple", "50")
	in.ServingSizeG = dec("182")
	got, err := svc.Update(ctx, apple.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Green Apple", got.Name)
	assert.Equal(t, "91", got.CaloriesPerServing().String())

	// keeping its own name is fine, taking another's is not
	_, err = svc.Update(ctx, apple.ID, newFood("Green Apple", "50"))
	assert.NoError(t, err)
	_, err = svc.Update(ctx, apple.ID, newFood("Pear", "50"))
	assert.True(t, errors.Is(err, util.ErrValidation))

	_, err = svc.Update(ctx, 9999, newFood("Ghost", "1"))
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestFoodService_List(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFoodService(db, testutil.Logger())
	ctx := context.Background()

	for _, f := range []*models.Food{
		{Name: "Salmon", Description: "Atlantic salmon, cooked"},
		{Name: "Brown Rice", Description: "Cooked brown rice"},
		{Name: "Apple", Description: "Fresh apple with skin"},
		{Name: "100% Juice", Description: "orange"},
	} {
		f.ServingSizeG = dec("100")
		require.NoError(t, svc.Create(ctx, f))
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Juice", "Apple", "Brown Rice", "Salmon"}, names(all))

	cooked, err := svc.List(ctx, "COOKED")
	require.NoError(t, err)
	assert.Equal(t, []string{"Brown Rice", "Salmon"}, names(cooked))

	pct, err := svc.List(ctx, "%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Juice"}, names(pct), "LIKE wildcards are literal")
}

func TestFoodService_GetByName(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFoodService(db, testutil.Logger())
	ctx := context.Background()

	testutil.CreateFood(t, db, "Greek Yogurt", "59", "10.3")

	f, err := svc.GetByName(ctx, "greek yogurt")
	require.NoError(t, err)
	assert.Equal(t, "Greek Yogurt", f.Name)

	_, err = svc.GetByName(ctx, "Greek")
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = svc.GetByName(ctx, "  ")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestFoodService_Search(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFoodService(db, testutil.Logger())
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		testutil.CreateFood(t, db, fmt.Sprintf("Apple %02d", i), "52", "0.3")
	}
	testutil.CreateFood(t, db, "Pineapple", "50", "0.5")
	testutil.CreateFood(t, db, "Banana", "89", "1.1")

	got, err := svc.Search(ctx, "apple", 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, "Apple 00", got[0].Name)

	got, err = svc.Search(ctx, "PINE", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pineapple"}, names(got))

	got, err = svc.Search(ctx, "", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFoodService_Recent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFoodService(db, testutil.Logger())
	ctx := context.Background()

	for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
		testutil.CreateFood(t, db, n, "1", "1")
	}
	got, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "E", "D", "C", "B"}, names(got))
}

func names(foods []models.Food) []string {
	out := make([]string, 0, len(foods))
	for _, f := range foods {
		out = append(out, f.Name)
	}
	return out
}

func TestFoodService_NonASCIINames(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFoodService(db, testutil.Logger())
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, newFood("ÉCLAIR", "262")))
	require.NoError(t, svc.Create(ctx, newFood("Crème Brûlée", "343")))

	f, err := svc.GetByName(ctx, "ÉCLAIR")
	require.NoError(t, err)
	assert.Equal(t, "ÉCLAIR", f.Name)

	// ASCII letters still fold around the non-ASCII ones
	f, err = svc.GetByName(ctx, "Éclair")
	require.NoError(t, err)
	assert.Equal(t, "ÉCLAIR", f.Name)

	found, err := svc.Search(ctx, "ÉCL", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ÉCLAIR"}, names(found))

	found, err = svc.List(ctx, "ÉCLAIR")
	require.NoError(t, err)
	assert.Equal(t, []string{"ÉCLAIR"}, names(found))

	found, err = svc.Search(ctx, "BRÛLÉE", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Crème Brûlée"}, names(found))
}

func TestConflictOnUniqueIndex(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(newFood("Kiwi", "61")).Error)

	// a second insert that skipped the name check hits the unique index
	err := conflict(db.Create(newFood("Kiwi", "61")).Error, "create food")
	assert.True(t, errors.Is(err, util.ErrConflict), "got %v", err)

	err = conflict(errors.New("disk full"), "create food")
	assert.False(t, errors.Is(err, util.ErrConflict))
	assert.EqualError(t, err, "create food: disk full")
}
