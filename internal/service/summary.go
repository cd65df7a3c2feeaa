package service

import (
	"context"
	"time"

	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/nutrition"
)

// DailySummary is everything the dashboard shows for one day.
type DailySummary struct {
	Date     time.Time
	Totals   nutrition.Totals
	Goal     *models.NutritionalGoal
	Progress nutrition.Progress
	Meals    nutrition.Meals
	Entries  []models.FoodEntry
	Recent   []models.FoodEntry
}

// WeeklySummary is a Monday to Sunday rollup. Goal is nil when the user
// has never had one.
type WeeklySummary struct {
	nutrition.Week
	Goal *models.NutritionalGoal
}

// SummaryService combines the log and goals into dashboard views.
type SummaryService struct {
	entries     *EntryService
	goals       *GoalService
	recentLimit int
}

func NewSummaryService(entries *EntryService, goals *GoalService, recentLimit int) *SummaryService {
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &SummaryService{entries: entries, goals: goals, recentLimit: recentLimit}
}

// Daily summarises the calendar day containing now. The user's goal is
// created with defaults if missing.
func (s *SummaryService) Daily(ctx context.Context, userID uint, now time.Time) (*DailySummary, error) {
	day := now.In(s.entries.Location())
	entries, err := s.entries.ListForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	goal, _, err := s.goals.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.entries.Recent(ctx, userID, s.recentLimit)
	if err != nil {
		return nil, err
	}

	totals := nutrition.Sum(entries)
	date, _ := nutrition.DayBounds(day)
	return &DailySummary{
		Date:     date,
		Totals:   totals,
		Goal:     goal,
		Progress: nutrition.GoalProgress(totals, goal),
		Meals:    nutrition.GroupByMeal(entries),
		Entries:  entries,
		Recent:   recent,
	}, nil
}

// Weekly rolls up the week containing ref.
func (s *SummaryService) Weekly(ctx context.Context, userID uint, ref time.Time) (*WeeklySummary, error) {
	ref = ref.In(s.entries.Location())
	start := nutrition.WeekStart(ref)
	entries, err := s.entries.ListRange(ctx, userID, start, start.AddDate(0, 0, 6))
	if err != nil {
		return nil, err
	}
	goal, err := s.goals.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WeeklySummary{
		Week: nutrition.WeeklyRollup(entries, ref),
		Goal: goal,
	}, nil
}
