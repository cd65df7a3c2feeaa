// Package service holds the application's use cases. Services validate
// their input completely before writing and report problems as
// *util.ValidationError, util.ErrNotFound or wrapped storage errors.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

func scoped(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("service", name)
}

// notFound maps gorm's missing-row error onto util.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return err
}

// conflict maps a unique-index violation onto util.ErrConflict. It covers
// the window between a uniqueness check and the insert.
func conflict(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, util.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere. Case folding is
// left to the database (LOWER on both sides) so stored values and the
// pattern are folded by the same rules.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// inLocation moves every entry timestamp into loc for display and bucketing.
func inLocation(entries []models.FoodEntry, loc *time.Location) {
	if loc == nil {
		return
	}
	for i := range entries {
		entries[i].ConsumedAt = entries[i].ConsumedAt.In(loc)
	}
}
