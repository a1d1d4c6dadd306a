// Package ui provides the terminal interface for habitator.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/grid"
	"github.com/tokrqui/habitator/internal/session"
	"github.com/tokrqui/habitator/internal/settings"
)

// Grid content layout, relative to the pane's inner content:
// title (1) + separator (1) + blank (1) + month labels (1), then the
// seven cell rows. Each cell is two columns wide (glyph + space) and the
// rows are indented by the weekday label.
const (
	gridHeaderRows = 4
	gridLeftMargin = 3
	gridCellWidth  = 2
)

// GridPane renders one year of the active habit and drives day toggling.
type GridPane struct {
	sess        *session.Session
	styles      *Styles
	focused     bool
	width       int
	height      int
	mondayFirst bool

	cursorWeek int
	cursorRow  int

	now func() time.Time

	keys GridKeyMap
}

// NewGridPane creates a new year grid pane.
func NewGridPane(sess *session.Session, styles *Styles) *GridPane {
	return NewGridPaneWithKeys(sess, styles, &config.KeysConfig{}, false)
}

// NewGridPaneWithKeys creates a year grid pane with custom key bindings.
func NewGridPaneWithKeys(sess *session.Session, styles *Styles, keyCfg *config.KeysConfig, mondayFirst bool) *GridPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	p := &GridPane{
		sess:        sess,
		styles:      styles,
		mondayFirst: mondayFirst,
		now:         time.Now,
		keys:        NewGridKeyMap(keyCfg),
	}
	p.jumpToToday()
	return p
}

// SetSize sets the pane dimensions.
func (p *GridPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *GridPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *GridPane) IsFocused() bool {
	return p.focused
}

func (p *GridPane) grid() grid.Grid {
	return grid.New(p.sess.Settings().Year, p.mondayFirst)
}

// CursorDate returns the date under the cursor, or ok=false on a padding
// cell.
func (p *GridPane) CursorDate() (string, bool) {
	return p.grid().Date(p.cursorWeek, p.cursorRow)
}

// jumpToToday moves the cursor to today when the displayed year contains it,
// or to January 1 otherwise.
func (p *GridPane) jumpToToday() {
	g := p.grid()
	today := p.now().Format(settings.DateFormat)
	if week, row, ok := g.Cell(today); ok {
		p.cursorWeek, p.cursorRow = week, row
		return
	}
	if week, row, ok := g.Cell(fmt.Sprintf("%04d-01-01", g.Year())); ok {
		p.cursorWeek, p.cursorRow = week, row
	}
}

// clampCursor keeps the cursor on a real day after a year change.
func (p *GridPane) clampCursor() {
	g := p.grid()
	if p.cursorWeek >= g.Weeks() {
		p.cursorWeek = g.Weeks() - 1
	}
	if p.cursorWeek < 0 {
		p.cursorWeek = 0
	}
	if _, ok := g.Date(p.cursorWeek, p.cursorRow); !ok {
		p.jumpToToday()
	}
}

// Update handles messages for the grid pane.
func (p *GridPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case yearSetMsg:
		if msg.ok {
			p.clampCursor()
		}
		return nil

	case tea.MouseMsg:
		if p.focused {
			return p.handleMouse(msg)
		}
		return nil

	case tea.KeyMsg:
		if !p.focused {
			return nil
		}
		return p.handleKey(msg)
	}

	return nil
}

func (p *GridPane) handleKey(msg tea.KeyMsg) tea.Cmd {
	g := p.grid()

	switch {
	case key.Matches(msg, p.keys.Up):
		p.moveCursor(g, 0, -1)

	case key.Matches(msg, p.keys.Down):
		p.moveCursor(g, 0, 1)

	case key.Matches(msg, p.keys.Left):
		p.moveCursor(g, -1, 0)

	case key.Matches(msg, p.keys.Right):
		p.moveCursor(g, 1, 0)

	case key.Matches(msg, p.keys.Today):
		p.jumpToToday()

	case key.Matches(msg, p.keys.PrevYear):
		return setYearCmd(p.sess, p.sess.Settings().Year-1)

	case key.Matches(msg, p.keys.NextYear):
		return setYearCmd(p.sess, p.sess.Settings().Year+1)

	case key.Matches(msg, p.keys.Toggle):
		date, ok := p.CursorDate()
		if !ok {
			return nil
		}
		active := p.sess.Settings().Active()
		if active == nil {
			return nil
		}
		return toggleDayCmd(p.sess, active.ID, date)
	}

	return nil
}

// moveCursor shifts the cursor, skipping over padding cells at the year's
// edges.
func (p *GridPane) moveCursor(g grid.Grid, dw, dr int) {
	week := p.cursorWeek + dw
	row := p.cursorRow + dr
	if row < 0 || row >= grid.DaysPerWeek || week < 0 || week >= g.Weeks() {
		return
	}
	if _, ok := g.Date(week, row); !ok {
		return
	}
	p.cursorWeek, p.cursorRow = week, row
}

// handleMouse maps clicks to grid cells.
func (p *GridPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return nil
	}

	week := (msg.X - gridLeftMargin) / gridCellWidth
	row := msg.Y - gridHeaderRows
	g := p.grid()
	date, ok := g.Date(week, row)
	if !ok {
		return nil
	}

	p.cursorWeek, p.cursorRow = week, row

	active := p.sess.Settings().Active()
	if active == nil {
		return nil
	}
	return toggleDayCmd(p.sess, active.ID, date)
}

// View renders the grid pane.
func (p *GridPane) View() string {
	s := p.sess.Settings()
	g := p.grid()
	active := s.Active()

	var b strings.Builder

	name := "(no habit)"
	if active != nil {
		name = active.Name
	}
	b.WriteString(p.styles.PaneTitleStyle.Render(fmt.Sprintf("%d · %s", s.Year, name)))
	b.WriteString("\n")

	sepWidth := max(10, g.Weeks()*gridCellWidth+gridLeftMargin)
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n\n")

	b.WriteString(p.renderMonthLabels(g))
	b.WriteString("\n")

	done := make(map[string]bool)
	if active != nil {
		for _, d := range active.CompletedDays {
			done[d] = true
		}
	}
	today := p.now().Format(settings.DateFormat)

	for row := 0; row < grid.DaysPerWeek; row++ {
		b.WriteString(p.styles.StatLabelStyle.Render(g.RowLabel(row).String()[:2] + " "))
		for week := 0; week < g.Weeks(); week++ {
			b.WriteString(p.renderCell(g, week, row, done, today))
		}
		b.WriteString("\n")
	}

	if active != nil {
		count := 0
		for range done {
			count++
		}
		b.WriteString("\n")
		b.WriteString(p.styles.StatLabelStyle.Render("Done: ") +
			p.styles.StatValueStyle.Render(fmt.Sprintf("%d", count)))
		if date, ok := p.CursorDate(); ok {
			b.WriteString(p.styles.StatLabelStyle.Render("   Cursor: ") +
				p.styles.StatValueStyle.Render(date))
		}
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderMonthLabels places three-letter month names over the week column
// holding each month's first day.
func (p *GridPane) renderMonthLabels(g grid.Grid) string {
	row := make([]rune, gridLeftMargin+g.Weeks()*gridCellWidth)
	for i := range row {
		row[i] = ' '
	}
	for week := 0; week < g.Weeks(); week++ {
		m := g.MonthOfWeek(week)
		if m == 0 {
			continue
		}
		label := m.String()[:3]
		pos := gridLeftMargin + week*gridCellWidth
		for i, r := range label {
			if pos+i < len(row) {
				row[pos+i] = r
			}
		}
	}
	return p.styles.StatLabelStyle.Render(string(row))
}

func (p *GridPane) renderCell(g grid.Grid, week, row int, done map[string]bool, today string) string {
	date, ok := g.Date(week, row)
	if !ok {
		return strings.Repeat(" ", gridCellWidth)
	}

	glyph := p.styles.CellEmpty
	style := p.styles.CellEmptyStyle
	switch {
	case done[date]:
		glyph = p.styles.CellDone
		style = p.styles.CellDoneStyle
	case date == today:
		style = p.styles.CellTodayStyle
	}

	cell := style.Render(glyph)
	if p.focused && week == p.cursorWeek && row == p.cursorRow {
		cell = p.styles.CellCursorStyle.Render(glyph)
	}
	return cell + " "
}
