package nutrition

import (
	"time"

	"github.com/developer-az/food-tracker/internal/models"
)

const dateKey = "2006-01-02"

// DayBounds returns [start of day, start of next day) for t in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekStart returns midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	start, _ := DayBounds(t)
	offset := (int(start.Weekday()) + 6) % 7 // Monday = 0
	return start.AddDate(0, 0, -offset)
}

// Day is one row of a weekly rollup.
type Day struct {
	Date       time.Time `json:"date"`
	Name       string    `json:"name"`
	Totals     Totals    `json:"totals"`
	EntryCount int       `json:"entries_count"`
}

// Week is a Monday to Sunday rollup.
type Week struct {
	Start  time.Time `json:"week_start"`
	End    time.Time `json:"week_end"` // the Sunday, at midnight
	Days   [7]Day    `json:"days"`
	Totals Totals    `json:"totals"`
}

// WeeklyRollup buckets entries into the week containing ref. Days are
// compared in ref's location; entries outside the week are ignored.
func WeeklyRollup(entries []models.FoodEntry, ref time.Time) Week {
	start := WeekStart(ref)
	loc := ref.Location()

	var w Week
	w.Start = start
	w.End = start.AddDate(0, 0, 6)

	var dates [7]time.Time
	index := make(map[string]int, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
		index[dates[i].Format(dateKey)] = i
	}

	var buckets [7][]models.FoodEntry
	for _, e := range entries {
		idx, ok := index[e.ConsumedAt.In(loc).Format(dateKey)]
		if !ok {
			continue
		}
		buckets[idx] = append(buckets[idx], e)
	}

	for i, date := range dates {
		w.Days[i] = Day{
			Date:       date,
			Name:       date.Weekday().String(),
			Totals:     Sum(buckets[i]),
			EntryCount: len(buckets[i]),
		}
		w.Totals = w.Totals.Add(w.Days[i].Totals)
	}
	return w
}
