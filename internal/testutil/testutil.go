// Package testutil provides a migrated throwaway database and fixtures.
package testutil

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/config"
	"github.com/developer-az/food-tracker/internal/database"
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

// Password is the plain-text password of users made by CreateUser.
const Password = "Passw0rd!x"

// Logger returns a logger that discards output.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewDB opens a migrated SQLite database under t.TempDir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user whose password is Password.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := util.HashPassword(Password, bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Username: username, PasswordHash: hash}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateFood inserts a food with the given calories and protein per 100g and
// default values for everything else.
func CreateFood(t testing.TB, db *gorm.DB, name, kcal, protein string) *models.Food {
	t.Helper()
	f := &models.Food{
		Name:            name,
		CaloriesPer100g: decimal.RequireFromString(kcal),
		ProteinPer100g:  decimal.RequireFromString(protein),
		CarbsPer100g:    decimal.Zero,
		FatPer100g:      decimal.Zero,
		FiberPer100g:    decimal.Zero,
		ServingSizeG:    decimal.NewFromInt(100),
	}
	require.NoError(t, db.Create(f).Error)
	return f
}

// Dec parses s or panics.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
