package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

// GoalService manages the single NutritionalGoal each user may have.
type GoalService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewGoalService(db *gorm.DB, log *logrus.Logger) *GoalService {
	return &GoalService{db: db, log: scoped(log, "goal")}
}

// GetOrCreate returns the user's goal, creating one with the default targets
// when none exists. created reports whether that happened.
func (s *GoalService) GetOrCreate(ctx context.Context, userID uint) (*models.NutritionalGoal, bool, error) {
	var g models.NutritionalGoal
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Attrs(*models.NewDefaultGoal(userID)).
		FirstOrCreate(&g)
	if res.Error != nil {
		return nil, false, fmt.Errorf("get or create goal: %w", res.Error)
	}
	created := res.RowsAffected > 0
	if created {
		s.log.WithField("user_id", userID).Info("default goal created")
	}
	return &g, created, nil
}

// Find returns the user's goal or nil when the user has none.
func (s *GoalService) Find(ctx context.Context, userID uint) (*models.NutritionalGoal, error) {
	var g models.NutritionalGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find goal: %w", err)
	}
	return &g, nil
}

func validateGoal(g *models.NutritionalGoal) error {
	ve := &util.ValidationError{}
	if err := util.ValidateCalorieTarget(g.DailyCalories); err != nil {
		ve.Add("daily_calories", "Ensure this value is between 500 and 5000.")
	}
	grams := []struct {
		field string
		value decimal.Decimal
	}{
		{"daily_protein", g.DailyProtein},
		{"daily_carbs", g.DailyCarbs},
		{"daily_fat", g.DailyFat},
	}
	for _, t := range grams {
		if err := util.ValidateNonNegative(t.value); err != nil {
			ve.Add(t.field, "Ensure this value is greater than or equal to 0.")
		}
	}
	return ve.OrNil()
}

// Update replaces the user's targets with those in targets.
func (s *GoalService) Update(ctx context.Context, userID uint, targets *models.NutritionalGoal) (*models.NutritionalGoal, error) {
	if err := validateGoal(targets); err != nil {
		return nil, err
	}
	g, _, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	g.DailyCalories = targets.DailyCalories
	g.DailyProtein = targets.DailyProtein
	g.DailyCarbs = targets.DailyCarbs
	g.DailyFat = targets.DailyFat
	if err := s.db.WithContext(ctx).Omit("User").Save(g).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	s.log.WithField("user_id", userID).Info("goal updated")
	return g, nil
}
