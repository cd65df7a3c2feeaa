package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

// FoodService manages the shared food catalog.
type FoodService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewFoodService(db *gorm.DB, log *logrus.Logger) *FoodService {
	return &FoodService{db: db, log: scoped(log, "food")}
}

func validateFood(f *models.Food) *util.ValidationError {
	ve := &util.ValidationError{}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		ve.Add("name", "This field is required.")
	}
	check := func(field string, d decimal.Decimal) {
		if err := util.ValidateNonNegative(d); err != nil {
			ve.Add(field, "Ensure this value is greater than or equal to 0.")
		}
	}
	check("calories_per_100g", f.CaloriesPer100g)
	check("protein_per_100g", f.ProteinPer100g)
	check("carbs_per_100g", f.CarbsPer100g)
	check("fat_per_100g", f.FatPer100g)
	check("fiber_per_100g", f.FiberPer100g)
	if err := util.ValidateQuantity(f.ServingSizeG); err != nil {
		ve.Add("serving_size_g", "Serving size must be greater than 0.")
	}
	return ve
}

func (s *FoodService) nameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&models.Food{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check food name: %w", err)
	}
	return n > 0, nil
}

// Create adds f to the catalog. Names are unique.
func (s *FoodService) Create(ctx context.Context, f *models.Food) error {
	ve := validateFood(f)
	if f.Name != "" {
		taken, err := s.nameTaken(ctx, f.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			ve.Add("name", "Food with this Name already exists.")
		}
	}
	if err := ve.OrNil(); err != nil {
		return err
	}

	f.ID = 0
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return conflict(err, "create food")
	}
	s.log.WithFields(logrus.Fields{"food_id": f.ID, "name": f.Name}).Info("food created")
	return nil
}

// Update overwrites the editable fields of food id with those of in.
func (s *FoodService) Update(ctx context.Context, id uint, in *models.Food) (*models.Food, error) {
	food, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ve := validateFood(in)
	if in.Name != "" {
		taken, err := s.nameTaken(ctx, in.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("name", "Food with this Name already exists.")
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	food.Name = in.Name
	food.Description = in.Description
	food.CaloriesPer100g = in.CaloriesPer100g
	food.ProteinPer100g = in.ProteinPer100g
	food.CarbsPer100g = in.CarbsPer100g
	food.FatPer100g = in.FatPer100g
	food.FiberPer100g = in.FiberPer100g
	food.ServingSizeG = in.ServingSizeG
	if err := s.db.WithContext(ctx).Save(food).Error; err != nil {
		return nil, conflict(err, fmt.Sprintf("update food %d", id))
	}
	s.log.WithField("food_id", id).Info("food updated")
	return food, nil
}

func (s *FoodService) Get(ctx context.Context, id uint) (*models.Food, error) {
	var f models.Food
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// List returns the catalog sorted by name. A non-blank search keeps foods
// whose name or description contains it, ignoring case.
func (s *FoodService) List(ctx context.Context, search string) ([]models.Food, error) {
	q := s.db.WithContext(ctx).Model(&models.Food{})
	if search = strings.TrimSpace(search); search != "" {
		p := containsPattern(search)
		q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(description) LIKE LOWER(?) ESCAPE '\'`, p, p)
	}
	var foods []models.Food
	if err := q.Order("name ASC").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	return foods, nil
}

// GetByName finds the food whose name equals name, ignoring case.
func (s *FoodService) GetByName(ctx context.Context, name string) (*models.Food, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.ErrNotFound
	}
	var f models.Food
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id ASC").
		First(&f).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

// Search returns at most limit foods whose name contains q, ordered by name.
// A blank q matches nothing.
func (s *FoodService) Search(ctx context.Context, q string, limit int) ([]models.Food, error) {
	q = strings.TrimSpace(q)
	if q == "" || limit <= 0 {
		return []models.Food{}, nil
	}
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, containsPattern(q)).
		Order("name ASC").
		Limit(limit).
		Find(&foods).Error
	if err != nil {
		return nil, fmt.Errorf("search foods: %w", err)
	}
	return foods, nil
}

func (s *FoodService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Food{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count foods: %w", err)
	}
	return n, nil
}

// Recent returns the n most recently added foods.
func (s *FoodService) Recent(ctx context.Context, n int) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&foods).Error
	if err != nil {
		return nil, fmt.Errorf("recent foods: %w", err)
	}
	return foods, nil
}
