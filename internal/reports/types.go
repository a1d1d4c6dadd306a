// Package reports provides yearly report generation for habitator. Reports
// aggregate the completion history of every habit over one calendar year and
// can be rendered as markdown, JSON, or an SVG heatmap.
package reports

import (
	"time"
)

// YearReport contains aggregated data for a single year.
type YearReport struct {
	Year        int         `json:"year"`
	Days        int         `json:"days"`
	Habits      []HabitYear `json:"habits"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// HabitYear represents one habit's completion over a year.
type HabitYear struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	CompletedCount int          `json:"completed_count"`
	CompletionRate float64      `json:"completion_rate"`
	CurrentStreak  int          `json:"current_streak"`
	LongestStreak  int          `json:"longest_streak"`
	ByMonth        []MonthCount `json:"by_month"`
	CompletedDays  []string     `json:"completed_days"`
}

// MonthCount represents completions in a single month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
