package reports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tokrqui/habitator/internal/settings"
)

var reportNow = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func testGenerator() *Generator {
	return NewGeneratorAt(func() time.Time { return reportNow })
}

func testReportSettings() *settings.Settings {
	s := settings.NormalizeAt(settings.Record{}, reportNow)
	s.Habits[0].Name = "Exercise"
	s.Habits[0].CompletedDays = []string{
		"2026-01-01",
		"2026-01-02",
		"2026-01-03",
		"2026-03-12",
		"2026-03-13",
		"2026-03-14",
		"2025-12-31", // outside the year
		"bogus",      // kept in storage, ignored in reports
	}
	return s
}

func TestGenerate_Counts(t *testing.T) {
	report := testGenerator().Generate(testReportSettings(), 2026)

	if report.Year != 2026 || report.Days != 365 {
		t.Fatalf("report = %d/%d days, want 2026/365", report.Year, report.Days)
	}
	if len(report.Habits) != 1 {
		t.Fatalf("len(Habits) = %d, want 1", len(report.Habits))
	}

	h := report.Habits[0]
	if h.CompletedCount != 6 {
		t.Errorf("CompletedCount = %d, want 6", h.CompletedCount)
	}
	if h.ByMonth[0].Count != 3 {
		t.Errorf("January count = %d, want 3", h.ByMonth[0].Count)
	}
	if h.ByMonth[2].Count != 3 {
		t.Errorf("March count = %d, want 3", h.ByMonth[2].Count)
	}
	if h.ByMonth[1].Count != 0 {
		t.Errorf("February count = %d, want 0", h.ByMonth[1].Count)
	}
	for _, d := range h.CompletedDays {
		if d == "bogus" || d == "2025-12-31" {
			t.Errorf("out-of-year day %q leaked into the report", d)
		}
	}
}

func TestGenerate_Streaks(t *testing.T) {
	report := testGenerator().Generate(testReportSettings(), 2026)
	h := report.Habits[0]

	// Mar 12..14 ends at the report date.
	if h.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", h.CurrentStreak)
	}
	if h.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", h.LongestStreak)
	}
}

func TestGenerate_StreakSkipsUnmarkedToday(t *testing.T) {
	s := settings.NormalizeAt(settings.Record{}, reportNow)
	s.Habits[0].CompletedDays = []string{"2026-03-12", "2026-03-13"}

	h := testGenerator().Generate(s, 2026).Habits[0]
	// Today (Mar 14) is not yet marked; the streak counts up to yesterday.
	if h.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", h.CurrentStreak)
	}
}

func TestGenerate_PastYearStreakAnchorsAtYearEnd(t *testing.T) {
	s := settings.NormalizeAt(settings.Record{}, reportNow)
	s.Habits[0].CompletedDays = []string{"2025-12-30", "2025-12-31"}

	h := testGenerator().Generate(s, 2025).Habits[0]
	if h.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", h.CurrentStreak)
	}
}

func TestGenerate_FutureYear(t *testing.T) {
	s := settings.NormalizeAt(settings.Record{}, reportNow)

	h := testGenerator().Generate(s, 2027).Habits[0]
	if h.CurrentStreak != 0 || h.CompletedCount != 0 {
		t.Errorf("future year report = %+v, want zeroes", h)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want int
	}{
		{"empty", nil, 0},
		{"single", []string{"2026-01-01"}, 1},
		{"run of four", []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04", "2026-02-01"}, 4},
		{"across month boundary", []string{"2026-01-31", "2026-02-01"}, 2},
		{"gaps only", []string{"2026-01-01", "2026-01-03", "2026-01-05"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := longestStreak(tt.days); got != tt.want {
				t.Errorf("longestStreak(%v) = %d, want %d", tt.days, got, tt.want)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	report := testGenerator().Generate(testReportSettings(), 2026)

	data, err := FormatJSON(report)
	if err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var decoded YearReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Year != 2026 || len(decoded.Habits) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFormatMarkdown(t *testing.T) {
	report := testGenerator().Generate(testReportSettings(), 2026)

	md := FormatMarkdown(report)
	for _, want := range []string{
		"# Habits 2026",
		"## Exercise",
		"Completed: 6 of 365 days",
		"Current streak: 3",
		"| Jan | 3 |",
		"```",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// The text grid has one line per weekday.
	start := strings.Index(md, "```\n")
	end := strings.Index(md[start+4:], "```")
	gridBlock := md[start+4 : start+4+end]
	if lines := strings.Count(gridBlock, "\n"); lines != 7 {
		t.Errorf("grid has %d rows, want 7", lines)
	}
}

func TestFormatSVG(t *testing.T) {
	report := testGenerator().Generate(testReportSettings(), 2026)

	svg := FormatSVG(report, &report.Habits[0], DefaultSVGOptions())
	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("output is not a complete SVG document")
	}
	if !strings.Contains(svg, `data-date="2026-01-01"`) {
		t.Error("SVG is missing day cells")
	}
	if !strings.Contains(svg, DefaultSVGOptions().DoneColor) {
		t.Error("SVG has no completed cells")
	}
	if !strings.Contains(svg, ">Jan</text>") {
		t.Error("SVG is missing month labels")
	}

	// 365 day cells in 2026.
	if got := strings.Count(svg, "<rect "); got != 365 {
		t.Errorf("SVG has %d cells, want 365", got)
	}
}

func TestFormatSVG_EscapesHabitName(t *testing.T) {
	s := settings.NormalizeAt(settings.Record{}, reportNow)
	s.Habits[0].Name = "Read <& write>"

	report := testGenerator().Generate(s, 2026)
	svg := FormatSVG(report, &report.Habits[0], DefaultSVGOptions())
	if strings.Contains(svg, "Read <& write>") {
		t.Error("habit name not escaped")
	}
	if !strings.Contains(svg, "Read &lt;&amp; write&gt;") {
		t.Error("escaped habit name missing")
	}
}
