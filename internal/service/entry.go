package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/nutrition"
	"github.com/developer-az/food-tracker/internal/util"
)

// NewEntry is a request to log a food for a user.
type NewEntry struct {
	UserID    uint
	FoodID    uint
	QuantityG decimal.Decimal
	MealType  string
	// ConsumedAt defaults to the creation time when zero.
	ConsumedAt time.Time
}

// EntryService records and reads a user's consumption log. Returned entries
// carry their Food and have ConsumedAt in the service's location.
type EntryService struct {
	db  *gorm.DB
	log *logrus.Entry
	loc *time.Location
}

func NewEntryService(db *gorm.DB, log *logrus.Logger, loc *time.Location) *EntryService {
	if loc == nil {
		loc = time.UTC
	}
	return &EntryService{db: db, log: scoped(log, "entry"), loc: loc}
}

// Location is the zone calendar days are computed in.
func (s *EntryService) Location() *time.Location {
	return s.loc
}

// Create validates in and appends it to the log.
func (s *EntryService) Create(ctx context.Context, in NewEntry, now time.Time) (*models.FoodEntry, error) {
	ve := &util.ValidationError{}
	if err := util.ValidateQuantity(in.QuantityG); err != nil {
		ve.Add("quantity_g", "Quantity must be greater than 0.")
	} else if err := util.ValidateDecimalShape(in.QuantityG, 6, 1); err != nil {
		ve.Add("quantity_g", err.Error())
	}
	if !models.ValidMealType(in.MealType) {
		ve.Add("meal_type", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", in.MealType))
	}

	var food models.Food
	if err := s.db.WithContext(ctx).First(&food, in.FoodID).Error; err != nil {
		if err = notFound(err); err != util.ErrNotFound {
			return nil, fmt.Errorf("load food %d: %w", in.FoodID, err)
		}
		ve.Add("food", "Select a valid choice. That choice is not one of the available choices.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	consumed := in.ConsumedAt
	if consumed.IsZero() {
		consumed = now
	}
	entry := &models.FoodEntry{
		UserID:     in.UserID,
		FoodID:     food.ID,
		QuantityG:  in.QuantityG,
		MealType:   in.MealType,
		ConsumedAt: consumed.UTC(),
		CreatedAt:  now.UTC(),
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	entry.Food = food
	entry.ConsumedAt = entry.ConsumedAt.In(s.loc)

	s.log.WithFields(logrus.Fields{
		"user_id":  in.UserID,
		"food":     food.Name,
		"quantity": in.QuantityG.String(),
		"meal":     in.MealType,
	}).Info("entry logged")
	return entry, nil
}

func (s *EntryService) base(ctx context.Context, userID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Food").
		Where("user_id = ?", userID)
}

func (s *EntryService) find(q *gorm.DB, what string) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	if err := q.Order("consumed_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	inLocation(entries, s.loc)
	return entries, nil
}

// ListForDay returns the user's entries on the calendar day of day.
func (s *EntryService) ListForDay(ctx context.Context, userID uint, day time.Time) ([]models.FoodEntry, error) {
	start, end := nutrition.DayBounds(day.In(s.loc))
	q := s.base(ctx, userID).
		Where("consumed_at >= ? AND consumed_at < ?", start.UTC(), end.UTC())
	return s.find(q, "list day entries")
}

// ListRange returns entries whose day lies within [from, to], both inclusive.
func (s *EntryService) ListRange(ctx context.Context, userID uint, from, to time.Time) ([]models.FoodEntry, error) {
	start, _ := nutrition.DayBounds(from.In(s.loc))
	_, end := nutrition.DayBounds(to.In(s.loc))
	q := s.base(ctx, userID).
		Where("consumed_at >= ? AND consumed_at < ?", start.UTC(), end.UTC())
	return s.find(q, "list range entries")
}

// Recent returns the user's n newest entries.
func (s *EntryService) Recent(ctx context.Context, userID uint, n int) ([]models.FoodEntry, error) {
	return s.find(s.base(ctx, userID).Limit(n), "recent entries")
}

// All returns every entry of the user, newest first.
func (s *EntryService) All(ctx context.Context, userID uint) ([]models.FoodEntry, error) {
	return s.find(s.base(ctx, userID), "all entries")
}
