package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/resolver"
	"github.com/tokrqui/habitator/internal/session"
	"github.com/tokrqui/habitator/internal/settings"
)

// storageChoice is one selectable storage mode row.
type storageChoice struct {
	mode  settings.StorageMode
	label string
	desc  string
}

var storageChoices = []storageChoice{
	{settings.ModeEmbedded, "Embedded", "keep data inside the config store"},
	{settings.ModeFixedVaultPath, "Vault file", "vault root, fixed filename"},
	{settings.ModeCustomVaultDir, "Custom folder", "a folder of your choice in the vault"},
}

// SettingsPane lets the user inspect and switch the storage backend. Picking
// the custom-folder mode opens a text input for the subdirectory.
type SettingsPane struct {
	sess    *session.Session
	styles  *Styles
	focused bool
	width   int
	height  int

	cursor   int
	editing  bool
	input    textinput.Model
	demotion string

	navKeys   NavigationKeyMap
	inputKeys InputKeyMap
}

// NewSettingsPane creates a new storage settings pane.
func NewSettingsPane(sess *session.Session, styles *Styles) *SettingsPane {
	return NewSettingsPaneWithKeys(sess, styles, &config.KeysConfig{})
}

// NewSettingsPaneWithKeys creates a storage settings pane with custom key
// bindings.
func NewSettingsPaneWithKeys(sess *session.Session, styles *Styles, keyCfg *config.KeysConfig) *SettingsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}

	input := textinput.New()
	input.CharLimit = 120
	input.Prompt = "> "
	input.Placeholder = settings.DefaultSubdir
	input.PromptStyle = styles.InputPromptStyle
	input.TextStyle = styles.InputTextStyle

	p := &SettingsPane{
		sess:      sess,
		styles:    styles,
		input:     input,
		navKeys:   NewNavigationKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.cursor = p.currentIndex()
	return p
}

// currentIndex returns the row of the effective storage mode.
func (p *SettingsPane) currentIndex() int {
	mode := p.sess.StorageConfig().Mode
	for i, c := range storageChoices {
		if c.mode == mode {
			return i
		}
	}
	return 0
}

// SetSize sets the pane dimensions.
func (p *SettingsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused. Losing focus cancels any
// pending input.
func (p *SettingsPane) SetFocused(focused bool) {
	p.focused = focused
	if !focused {
		p.exitInput()
	}
}

// IsFocused returns whether this pane is focused.
func (p *SettingsPane) IsFocused() bool {
	return p.focused
}

// InputActive reports whether the pane is capturing text.
func (p *SettingsPane) InputActive() bool {
	return p.editing
}

func (p *SettingsPane) exitInput() {
	p.editing = false
	p.input.Blur()
	p.input.SetValue("")
}

// Update handles messages for the settings pane.
func (p *SettingsPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case storageConfigSetMsg:
		p.cursor = p.currentIndex()
		if msg.demoted {
			p.demotion = "write failed, data kept in the config store"
		} else {
			p.demotion = ""
		}
		return nil

	case tea.KeyMsg:
		if !p.focused {
			return nil
		}
		if p.editing {
			return p.handleInputKey(msg)
		}
		return p.handleListKey(msg)
	}

	return nil
}

func (p *SettingsPane) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.navKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}

	case key.Matches(msg, p.navKeys.Down):
		if p.cursor < len(storageChoices)-1 {
			p.cursor++
		}

	case key.Matches(msg, p.inputKeys.Confirm):
		choice := storageChoices[p.cursor]
		if choice.mode == settings.ModeCustomVaultDir {
			cfg := p.sess.StorageConfig()
			p.editing = true
			p.input.SetValue(cfg.CustomSubdir)
			p.input.CursorEnd()
			p.input.Focus()
			return textinput.Blink
		}
		return setStorageConfigCmd(p.sess, settings.StorageConfig{Mode: choice.mode})
	}

	return nil
}

func (p *SettingsPane) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.inputKeys.Cancel):
		p.exitInput()
		return nil

	case key.Matches(msg, p.inputKeys.Confirm):
		subdir := strings.TrimSpace(p.input.Value())
		p.exitInput()
		return setStorageConfigCmd(p.sess, settings.StorageConfig{
			Mode:         settings.ModeCustomVaultDir,
			CustomSubdir: subdir,
		})
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the settings pane.
func (p *SettingsPane) View() string {
	cfg := p.sess.StorageConfig()

	var b strings.Builder
	b.WriteString(p.styles.PaneTitleStyle.Render("Storage"))
	b.WriteString("\n")

	for i, c := range storageChoices {
		marker := " "
		if c.mode == cfg.Mode {
			marker = p.styles.HabitActiveMarker
		}
		line := marker + " " + c.label
		if p.focused && i == p.cursor && !p.editing {
			b.WriteString(p.styles.HabitSelectedStyle.Render(line))
		} else {
			b.WriteString(p.styles.HabitNameStyle.Render(line))
		}
		b.WriteString(p.styles.StatLabelStyle.Render("  " + c.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if cfg.Mode == settings.ModeEmbedded {
		b.WriteString(p.styles.StatLabelStyle.Render("Location: ") +
			p.styles.StatValueStyle.Render("config store"))
	} else {
		b.WriteString(p.styles.StatLabelStyle.Render("Location: ") +
			p.styles.StatValueStyle.Render(resolver.ResolvePath(cfg)))
	}
	b.WriteString("\n")

	if p.editing {
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("Folder:"))
		b.WriteString("\n")
		b.WriteString(p.input.View())
		b.WriteString("\n")
	}

	if p.demotion != "" {
		b.WriteString("\n")
		b.WriteString(p.styles.ErrorStyle.Render(p.demotion))
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}
