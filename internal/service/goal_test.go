package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/testutil"
	"github.com/developer-az/food-tracker/internal/util"
)

func TestGoalService_GetOrCreate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewGoalService(db, testutil.Logger())
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")

	none, err := svc.Find(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	g, created, err := svc.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, g.DailyCalories.Equal(models.DefaultDailyCalories))
	assert.True(t, g.DailyProtein.Equal(models.DefaultDailyProtein))
	assert.True(t, g.DailyCarbs.Equal(models.DefaultDailyCarbs))
	assert.True(t, g.DailyFat.Equal(models.DefaultDailyFat))

	again, created, err := svc.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, g.ID, again.ID)

	var n int64
	require.NoError(t, db.Model(&models.NutritionalGoal{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestGoalService_Update(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewGoalService(db, testutil.Logger())
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")

	g, err := svc.Update(ctx, user.ID, &models.NutritionalGoal{
		DailyCalories: dec("1800"),
		DailyProtein:  dec("120.5"),
		DailyCarbs:    dec("0"),
		DailyFat:      dec("60"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1800", g.DailyCalories.String())

	stored, err := svc.Find(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.5", stored.DailyProtein.String())

	bad := []*models.NutritionalGoal{
		{DailyCalories: dec("499"), DailyProtein: dec("1"), DailyCarbs: dec("1"), DailyFat: dec("1")},
		{DailyCalories: dec("5001"), DailyProtein: dec("1"), DailyCarbs: dec("1"), DailyFat: dec("1")},
		{DailyCalories: dec("2000"), DailyProtein: dec("-1"), DailyCarbs: dec("1"), DailyFat: dec("1")},
		{DailyCalories: dec("2000"), DailyProtein: dec("1"), DailyCarbs: dec("1"), DailyFat: dec("-0.1")},
	}
	for _, b := range bad {
		_, err := svc.Update(ctx, user.ID, b)
		assert.True(t, errors.Is(err, util.ErrValidation), "targets %+v", b)
	}

	stored, err = svc.Find(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "1800", stored.DailyCalories.String(), "rejected updates leave the goal untouched")
}
