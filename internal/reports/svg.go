package reports

import (
	"fmt"
	"strings"

	"github.com/tokrqui/habitator/internal/grid"
)

// SVGOptions configures heatmap rendering parameters.
type SVGOptions struct {
	CellSize    int    // size of each day cell (px)
	CellPadding int    // padding between cells (px)
	FontSize    int    // font size for labels (px)
	FontFamily  string // font family for labels
	EmptyColor  string // fill for days without a completion
	DoneColor   string // fill for completed days
}

// DefaultSVGOptions returns the rendering defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		CellSize:    12,
		CellPadding: 2,
		FontSize:    10,
		FontFamily:  "sans-serif",
		EmptyColor:  "#ebedf0",
		DoneColor:   "#10B981",
	}
}

// FormatSVG renders one habit's year as a GitHub-style contribution heatmap.
func FormatSVG(report *YearReport, h *HabitYear, opts SVGOptions) string {
	g := grid.New(report.Year, false)
	done := make(map[string]bool, len(h.CompletedDays))
	for _, d := range h.CompletedDays {
		done[d] = true
	}

	step := opts.CellSize + opts.CellPadding
	titleHeight := opts.FontSize + 8
	labelHeight := opts.FontSize + 4
	width := g.Weeks()*step + opts.CellPadding
	height := grid.DaysPerWeek*step + opts.CellPadding + labelHeight + titleHeight

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height)
	fmt.Fprintf(&sb, `  <style>.label{font-family:%s;font-size:%dpx;fill:#666}.title{font-family:%s;font-size:%dpx;fill:#333;font-weight:bold}</style>`+"\n",
		opts.FontFamily, opts.FontSize, opts.FontFamily, opts.FontSize)

	fmt.Fprintf(&sb, `  <text x="%d" y="%d" class="title">%s %d</text>`+"\n",
		opts.CellPadding, opts.FontSize, escapeText(h.Name), report.Year)

	// month labels above the first column of each month
	for week := 0; week < g.Weeks(); week++ {
		m := g.MonthOfWeek(week)
		if m == 0 {
			continue
		}
		x := opts.CellPadding + week*step
		fmt.Fprintf(&sb, `  <text x="%d" y="%d" class="label">%s</text>`+"\n",
			x, titleHeight+opts.FontSize, m.String()[:3])
	}

	for week := 0; week < g.Weeks(); week++ {
		for row := 0; row < grid.DaysPerWeek; row++ {
			date, ok := g.Date(week, row)
			if !ok {
				continue
			}
			fill := opts.EmptyColor
			if done[date] {
				fill = opts.DoneColor
			}
			x := opts.CellPadding + week*step
			y := opts.CellPadding + titleHeight + labelHeight + row*step
			fmt.Fprintf(&sb, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" data-date="%s">`+"\n",
				x, y, opts.CellSize, opts.CellSize, fill, date)
			fmt.Fprintf(&sb, `    <title>%s</title>`+"\n", date)
			sb.WriteString(`  </rect>` + "\n")
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
