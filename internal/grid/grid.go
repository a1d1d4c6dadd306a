// Package grid computes the yearly heatmap layout: one column per week, one
// row per weekday, GitHub-contribution style. Everything here is pure
// calendar math so the TUI and the SVG report share one layout.
package grid

import (
	"time"

	"github.com/tokrqui/habitator/internal/settings"
)

// DaysPerWeek is the number of rows in the grid.
const DaysPerWeek = 7

// Grid is the layout of a single year.
type Grid struct {
	year        int
	mondayFirst bool
	start       time.Time
	days        int
	lead        int
}

// New builds the layout for a year. When mondayFirst is set the rows run
// Monday through Sunday instead of Sunday through Saturday.
func New(year int, mondayFirst bool) Grid {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	g := Grid{
		year:        year,
		mondayFirst: mondayFirst,
		start:       start,
		days:        int(end.Sub(start).Hours() / 24),
	}
	g.lead = g.row(start.Weekday())
	return g
}

// Year returns the year this grid lays out.
func (g Grid) Year() int { return g.year }

// Days returns the number of days in the year (365 or 366).
func (g Grid) Days() int { return g.days }

// Weeks returns the number of week columns, including partial first and last
// weeks.
func (g Grid) Weeks() int {
	return (g.lead + g.days + DaysPerWeek - 1) / DaysPerWeek
}

// Date returns the YYYY-MM-DD date at a cell, or ok=false for padding cells
// before January 1 and after December 31.
func (g Grid) Date(week, row int) (string, bool) {
	if week < 0 || row < 0 || row >= DaysPerWeek {
		return "", false
	}
	day := week*DaysPerWeek + row - g.lead
	if day < 0 || day >= g.days {
		return "", false
	}
	return g.start.AddDate(0, 0, day).Format(settings.DateFormat), true
}

// Cell returns the (week, row) position of a YYYY-MM-DD date, or ok=false
// when the date is malformed or outside the grid's year.
func (g Grid) Cell(date string) (week, row int, ok bool) {
	t, err := time.ParseInLocation(settings.DateFormat, date, time.UTC)
	if err != nil || t.Year() != g.year {
		return 0, 0, false
	}
	day := int(t.Sub(g.start).Hours()/24) + g.lead
	return day / DaysPerWeek, day % DaysPerWeek, true
}

// MonthOfWeek returns the month whose first day falls in the given week
// column, or 0 when none does. Used to place month labels above columns.
func (g Grid) MonthOfWeek(week int) time.Month {
	for m := time.January; m <= time.December; m++ {
		first := time.Date(g.year, m, 1, 0, 0, 0, 0, time.UTC)
		day := int(first.Sub(g.start).Hours()/24) + g.lead
		if day/DaysPerWeek == week {
			return m
		}
	}
	return 0
}

// RowLabel returns the weekday label of a row, honoring the first-day
// setting.
func (g Grid) RowLabel(row int) time.Weekday {
	if g.mondayFirst {
		return time.Weekday((row + 1) % DaysPerWeek)
	}
	return time.Weekday(row)
}

// row maps a weekday to its grid row.
func (g Grid) row(wd time.Weekday) int {
	if g.mondayFirst {
		return (int(wd) + 6) % DaysPerWeek
	}
	return int(wd)
}
