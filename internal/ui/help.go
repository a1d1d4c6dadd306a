package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a full-screen key reference over the app.
type HelpOverlay struct {
	styles  *Styles
	visible bool
	width   int
	height  int

	global GlobalKeyMap
	grid   GridKeyMap
	habits HabitKeyMap
	keys   HelpKeyMap
}

// NewHelpOverlay creates a help overlay listing the given key maps.
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, grid GridKeyMap, habits HabitKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		global: global,
		grid:   grid,
		habits: habits,
		keys:   DefaultHelpKeyMap(),
	}
}

// SetSize sets the overlay dimensions.
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Visible reports whether the overlay is shown.
func (h *HelpOverlay) Visible() bool {
	return h.visible
}

// Show makes the overlay visible.
func (h *HelpOverlay) Show() {
	h.visible = true
}

// Hide dismisses the overlay.
func (h *HelpOverlay) Hide() {
	h.visible = false
}

// Update handles messages while the overlay is visible. Any close key
// dismisses it.
func (h *HelpOverlay) Update(msg tea.Msg) tea.Cmd {
	if !h.visible {
		return nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, h.keys.Close) {
			h.visible = false
		}
	}
	return nil
}

// View renders the overlay.
func (h *HelpOverlay) View() string {
	var b strings.Builder

	b.WriteString(h.styles.TitleStyle.Render("Help"))
	b.WriteString("\n\n")

	h.section(&b, "Global", []key.Binding{
		h.global.NextPane, h.global.Pane1, h.global.Pane2, h.global.Pane3,
		h.global.Help, h.global.Quit,
	})
	h.section(&b, "Year grid", flatten(h.grid.FullHelp()))
	h.section(&b, "Habits", flatten(h.habits.FullHelp()))

	b.WriteString(h.styles.StatLabelStyle.Render("press any key to close"))

	box := h.styles.PaneFocusedStyle.Render(b.String())
	if h.width > 0 && h.height > 0 {
		return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (h *HelpOverlay) section(b *strings.Builder, title string, bindings []key.Binding) {
	b.WriteString(h.styles.PaneTitleStyle.Render(title))
	b.WriteString("\n")
	for _, kb := range bindings {
		help := kb.Help()
		if help.Key == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(h.styles.HelpKeyStyle.Render(padRight(help.Key, 10)))
		b.WriteString(h.styles.HelpStyle.Render(help.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func flatten(groups [][]key.Binding) []key.Binding {
	var out []key.Binding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
