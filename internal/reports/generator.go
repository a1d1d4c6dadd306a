package reports

import (
	"sort"
	"time"

	"github.com/tokrqui/habitator/internal/settings"
)

// Generator creates reports from settings data.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorAt creates a generator with a fixed clock, for tests.
func NewGeneratorAt(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate builds the report for one calendar year.
func (g *Generator) Generate(s *settings.Settings, year int) *YearReport {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)

	report := &YearReport{
		Year:        year,
		Days:        days,
		GeneratedAt: g.now(),
	}

	for _, h := range s.Habits {
		report.Habits = append(report.Habits, g.habitYear(&h, year, days))
	}
	return report
}

// habitYear aggregates one habit. Malformed dates and dates outside the year
// are ignored.
func (g *Generator) habitYear(h *settings.Habit, year, days int) HabitYear {
	done := make(map[string]bool)
	byMonth := make([]int, 12)
	var inYear []string

	for _, d := range h.CompletedDays {
		t, err := time.ParseInLocation(settings.DateFormat, d, time.UTC)
		if err != nil || t.Year() != year {
			continue
		}
		key := t.Format(settings.DateFormat)
		if done[key] {
			continue
		}
		done[key] = true
		byMonth[int(t.Month())-1]++
		inYear = append(inYear, key)
	}
	sort.Strings(inYear)

	rate := 0.0
	if days > 0 {
		rate = float64(len(inYear)) / float64(days) * 100
	}

	months := make([]MonthCount, 12)
	for i := range months {
		months[i] = MonthCount{
			Month: time.Month(i + 1).String()[:3],
			Count: byMonth[i],
		}
	}

	return HabitYear{
		ID:             h.ID,
		Name:           h.Name,
		CompletedCount: len(inYear),
		CompletionRate: rate,
		CurrentStreak:  g.currentStreak(done, year),
		LongestStreak:  longestStreak(inYear),
		ByMonth:        months,
		CompletedDays:  inYear,
	}
}

// currentStreak counts consecutive completed days ending at the report date,
// or at December 31 for past years. A missed anchor day does not break the
// streak; the count then ends the day before.
func (g *Generator) currentStreak(done map[string]bool, year int) int {
	anchor := g.now().UTC().Truncate(24 * time.Hour)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if anchor.After(yearEnd) {
		anchor = yearEnd
	}
	if anchor.Year() != year {
		return 0
	}

	if !done[anchor.Format(settings.DateFormat)] {
		anchor = anchor.AddDate(0, 0, -1)
	}

	streak := 0
	for anchor.Year() == year && done[anchor.Format(settings.DateFormat)] {
		streak++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak finds the longest run of consecutive days in a sorted,
// deduplicated day list.
func longestStreak(days []string) int {
	longest, run := 0, 0
	var prev time.Time

	for _, d := range days {
		t, err := time.ParseInLocation(settings.DateFormat, d, time.UTC)
		if err != nil {
			continue
		}
		if run > 0 && t.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = t
	}
	return longest
}
