package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default daily targets applied when a goal is first created.
var (
	DefaultDailyCalories = decimal.NewFromInt(2000)
	DefaultDailyProtein  = decimal.NewFromInt(150)
	DefaultDailyCarbs    = decimal.NewFromInt(250)
	DefaultDailyFat      = decimal.NewFromInt(70)
)

// NutritionalGoal holds a user's daily targets. One per user.
type NutritionalGoal struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"uniqueIndex;not null"`
	DailyCalories decimal.Decimal `gorm:"type:decimal(6,0);not null;default:2000"`
	DailyProtein  decimal.Decimal `gorm:"type:decimal(6,1);not null;default:150"`
	DailyCarbs    decimal.Decimal `gorm:"type:decimal(6,1);not null;default:250"`
	DailyFat      decimal.Decimal `gorm:"type:decimal(6,1);not null;default:70"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// NewDefaultGoal returns an unsaved goal for userID with the default targets.
func NewDefaultGoal(userID uint) *NutritionalGoal {
	return &NutritionalGoal{
		UserID:        userID,
		DailyCalories: DefaultDailyCalories,
		DailyProtein:  DefaultDailyProtein,
		DailyCarbs:    DefaultDailyCarbs,
		DailyFat:      DefaultDailyFat,
	}
}
