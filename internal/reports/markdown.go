package reports

import (
	"fmt"
	"strings"

	"github.com/tokrqui/habitator/internal/grid"
)

const (
	cellDone    = "■"
	cellMissed  = "·"
	cellPadding = " "
)

// FormatMarkdown formats a year report as a markdown document with one
// section per habit, including a text rendering of the year grid.
func FormatMarkdown(report *YearReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Habits %d\n\n", report.Year)
	fmt.Fprintf(&sb, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04"))

	for i := range report.Habits {
		h := &report.Habits[i]

		fmt.Fprintf(&sb, "## %s\n\n", h.Name)
		fmt.Fprintf(&sb, "- Completed: %d of %d days (%.1f%%)\n", h.CompletedCount, report.Days, h.CompletionRate)
		fmt.Fprintf(&sb, "- Current streak: %d\n", h.CurrentStreak)
		fmt.Fprintf(&sb, "- Longest streak: %d\n\n", h.LongestStreak)

		sb.WriteString("| Month | Done |\n")
		sb.WriteString("|-------|------|\n")
		for _, m := range h.ByMonth {
			fmt.Fprintf(&sb, "| %s | %d |\n", m.Month, m.Count)
		}
		sb.WriteString("\n```\n")
		sb.WriteString(textGrid(report.Year, h.CompletedDays))
		sb.WriteString("```\n\n")
	}

	return sb.String()
}

// textGrid renders the year as rows of week cells, Sunday first.
func textGrid(year int, completedDays []string) string {
	g := grid.New(year, false)
	done := make(map[string]bool, len(completedDays))
	for _, d := range completedDays {
		done[d] = true
	}

	var sb strings.Builder
	for row := 0; row < grid.DaysPerWeek; row++ {
		for week := 0; week < g.Weeks(); week++ {
			date, ok := g.Date(week, row)
			switch {
			case !ok:
				sb.WriteString(cellPadding)
			case done[date]:
				sb.WriteString(cellDone)
			default:
				sb.WriteString(cellMissed)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
