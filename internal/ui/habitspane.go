package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/session"
)

// habitsMode is the input mode of the habits pane.
type habitsMode int

const (
	habitsModeList habitsMode = iota
	habitsModeAdd
	habitsModeRename
)

// HabitsPane lists the habits, lets the user switch the active one, and
// handles add and rename through an inline text input. Deletion is routed
// through the app so the confirmation overlay can intercept it.
type HabitsPane struct {
	sess    *session.Session
	styles  *Styles
	focused bool
	width   int
	height  int

	cursor   int
	mode     habitsMode
	input    textinput.Model
	renameID string

	keys      HabitKeyMap
	inputKeys InputKeyMap
}

// NewHabitsPane creates a new habits pane.
func NewHabitsPane(sess *session.Session, styles *Styles) *HabitsPane {
	return NewHabitsPaneWithKeys(sess, styles, &config.KeysConfig{})
}

// NewHabitsPaneWithKeys creates a habits pane with custom key bindings.
func NewHabitsPaneWithKeys(sess *session.Session, styles *Styles, keyCfg *config.KeysConfig) *HabitsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}

	input := textinput.New()
	input.CharLimit = 60
	input.Prompt = "> "
	input.PromptStyle = styles.InputPromptStyle
	input.TextStyle = styles.InputTextStyle

	return &HabitsPane{
		sess:      sess,
		styles:    styles,
		input:     input,
		keys:      NewHabitKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *HabitsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused. Losing focus cancels any
// pending input.
func (p *HabitsPane) SetFocused(focused bool) {
	p.focused = focused
	if !focused {
		p.exitInput()
	}
}

// IsFocused returns whether this pane is focused.
func (p *HabitsPane) IsFocused() bool {
	return p.focused
}

// InputActive reports whether the pane is capturing text. The app uses this
// to suppress global key bindings.
func (p *HabitsPane) InputActive() bool {
	return p.mode != habitsModeList
}

// CursorID returns the id of the habit under the cursor.
func (p *HabitsPane) CursorID() (string, bool) {
	habits := p.sess.Settings().Habits
	if p.cursor < 0 || p.cursor >= len(habits) {
		return "", false
	}
	return habits[p.cursor].ID, true
}

func (p *HabitsPane) clampCursor() {
	n := len(p.sess.Settings().Habits)
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *HabitsPane) exitInput() {
	p.mode = habitsModeList
	p.renameID = ""
	p.input.Blur()
	p.input.SetValue("")
}

// Update handles messages for the habits pane.
func (p *HabitsPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case habitAddedMsg, habitDeletedMsg:
		p.clampCursor()
		return nil

	case tea.KeyMsg:
		if !p.focused {
			return nil
		}
		if p.mode != habitsModeList {
			return p.handleInputKey(msg)
		}
		return p.handleListKey(msg)
	}

	return nil
}

func (p *HabitsPane) handleListKey(msg tea.KeyMsg) tea.Cmd {
	habits := p.sess.Settings().Habits

	switch {
	case key.Matches(msg, p.keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}

	case key.Matches(msg, p.keys.Down):
		if p.cursor < len(habits)-1 {
			p.cursor++
		}

	case key.Matches(msg, p.keys.Select):
		if id, ok := p.CursorID(); ok {
			return selectHabitCmd(p.sess, id)
		}

	case key.Matches(msg, p.keys.Add):
		p.mode = habitsModeAdd
		p.input.Placeholder = "habit name"
		p.input.SetValue("")
		p.input.Focus()
		return textinput.Blink

	case key.Matches(msg, p.keys.Rename):
		id, ok := p.CursorID()
		if !ok {
			return nil
		}
		p.mode = habitsModeRename
		p.renameID = id
		p.input.Placeholder = ""
		p.input.SetValue(habits[p.cursor].Name)
		p.input.CursorEnd()
		p.input.Focus()
		return textinput.Blink
	}

	return nil
}

func (p *HabitsPane) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.inputKeys.Cancel):
		p.exitInput()
		return nil

	case key.Matches(msg, p.inputKeys.Confirm):
		name := strings.TrimSpace(p.input.Value())
		mode, renameID := p.mode, p.renameID
		p.exitInput()
		if name == "" {
			return nil
		}
		if mode == habitsModeRename {
			return renameHabitCmd(p.sess, renameID, name)
		}
		return addHabitCmd(p.sess, name)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the habits pane.
func (p *HabitsPane) View() string {
	s := p.sess.Settings()

	var b strings.Builder
	b.WriteString(p.styles.PaneTitleStyle.Render("Habits"))
	b.WriteString("\n")

	for i, h := range s.Habits {
		marker := " "
		if s.ActiveHabitID != nil && h.ID == *s.ActiveHabitID {
			marker = p.styles.HabitActiveMarker
		}

		line := fmt.Sprintf("%s %s", marker, h.Name)
		count := p.styles.StatLabelStyle.Render(fmt.Sprintf(" (%d)", len(h.CompletedDays)))

		if p.focused && i == p.cursor && p.mode == habitsModeList {
			b.WriteString(p.styles.HabitSelectedStyle.Render(line) + count)
		} else {
			b.WriteString(p.styles.HabitNameStyle.Render(line) + count)
		}
		b.WriteString("\n")
	}

	if len(s.Habits) == 0 {
		b.WriteString(p.styles.StatLabelStyle.Render("  no habits"))
		b.WriteString("\n")
	}

	switch p.mode {
	case habitsModeAdd:
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("New habit:"))
		b.WriteString("\n")
		b.WriteString(p.input.View())
	case habitsModeRename:
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("Rename:"))
		b.WriteString("\n")
		b.WriteString(p.input.View())
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}
