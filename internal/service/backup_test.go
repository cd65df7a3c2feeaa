package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/testutil"
	"github.com/developer-az/food-tracker/internal/util"
)

func TestBackupService_RoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "backups")
	svc := NewBackupService(db, testutil.Logger(), dir, "backup-key")
	entries := NewEntryService(db, testutil.Logger(), time.UTC)
	goals := NewGoalService(db, testutil.Logger())

	user := testutil.CreateUser(t, db, "alice")
	apple := testutil.CreateFood(t, db, "Apple", "52", "0.3")
	kiwi := testutil.CreateFood(t, db, "Kiwi", "61", "1.1")
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	_, err := goals.Update(ctx, user.ID, &models.NutritionalGoal{DailyCalories: dec("1800"), DailyProtein: dec("100"), DailyCarbs: dec("200"), DailyFat: dec("50")})
	require.NoError(t, err)
	for _, f := range []*models.Food{apple, kiwi} {
		_, err := entries.Create(ctx, NewEntry{UserID: user.ID, FoodID: f.ID, QuantityG: dec("150.5"), MealType: "lunch", ConsumedAt: now}, now)
		require.NoError(t, err)
	}

	b, err := svc.Create(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Entries)

	raw, err := os.ReadFile(b.FilePath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Apple", "backup is encrypted")

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// wipe the log, change the goal and drop a food, then restore
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.FoodEntry{}).Error)
	_, err = goals.Update(ctx, user.ID, &models.NutritionalGoal{DailyCalories: dec("3000"), DailyProtein: dec("1"), DailyCarbs: dec("1"), DailyFat: dec("1")})
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Food{}, kiwi.ID).Error)

	res, err := svc.Restore(ctx, user.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, []string{"Kiwi"}, res.Skipped)

	all, err := entries.All(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "150.5", all[0].QuantityG.String())
	assert.True(t, all[0].ConsumedAt.Equal(now))

	g, err := goals.Find(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "1800", g.DailyCalories.String())

	require.NoError(t, svc.Delete(ctx, user.ID, b.ID))
	_, err = os.Stat(b.FilePath)
	assert.True(t, os.IsNotExist(err))
	_, err = svc.Get(ctx, user.ID, b.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestBackupService_OtherUser(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	svc := NewBackupService(db, testutil.Logger(), t.TempDir(), "k")
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	b, err := svc.Create(ctx, alice.ID, time.Now())
	require.NoError(t, err)

	_, err = svc.Restore(ctx, bob.ID, b.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, b.ID), util.ErrNotFound)
}
