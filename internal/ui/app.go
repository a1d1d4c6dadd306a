package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/session"
)

// Pane indices for focus cycling.
const (
	paneGrid = iota
	paneHabits
	paneSettings
	paneCount
)

const statusTTL = 4 * time.Second

// statusExpiredMsg clears the status line once its deadline passes.
type statusExpiredMsg struct {
	deadline time.Time
}

// App is the root Bubble Tea model.
type App struct {
	sess   *session.Session
	cfg    *config.Config
	styles *Styles

	grid     *GridPane
	habits   *HabitsPane
	settings *SettingsPane
	help     *HelpOverlay

	keys    GlobalKeyMap
	focused int
	width   int
	height  int

	status         string
	statusIsError  bool
	statusDeadline time.Time

	confirmDeleteID   string
	confirmDeleteName string
}

// NewApp creates the root model.
func NewApp(sess *session.Session, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	styles := NewStyles(cfg)

	a := &App{
		sess:     sess,
		cfg:      cfg,
		styles:   styles,
		grid:     NewGridPaneWithKeys(sess, styles, &cfg.Keys, cfg.UX.WeekStartsMonday),
		habits:   NewHabitsPaneWithKeys(sess, styles, &cfg.Keys),
		settings: NewSettingsPaneWithKeys(sess, styles, &cfg.Keys),
		keys:     NewGlobalKeyMap(&cfg.Keys),
	}
	a.help = NewHelpOverlay(styles, a.keys, a.grid.keys, a.habits.keys)
	a.setFocus(paneGrid)

	if sess.TakeDemotionNotice() {
		a.setStatusNow("storage unavailable, data kept in the config store", true)
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.status != "" {
		return a.statusExpiry()
	}
	return nil
}

func (a *App) setFocus(pane int) {
	a.focused = pane
	a.grid.SetFocused(pane == paneGrid)
	a.habits.SetFocused(pane == paneHabits)
	a.settings.SetFocused(pane == paneSettings)
}

// inputActive reports whether any pane is capturing text, which suppresses
// the global bindings.
func (a *App) inputActive() bool {
	return a.habits.InputActive() || a.settings.InputActive()
}

func (a *App) narrow() bool {
	threshold := a.cfg.UX.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}
	return a.width > 0 && a.width < threshold
}

// setStatus sets the status line and returns the expiry command.
func (a *App) setStatus(text string, isError bool) tea.Cmd {
	a.setStatusNow(text, isError)
	return a.statusExpiry()
}

func (a *App) setStatusNow(text string, isError bool) {
	a.status = text
	a.statusIsError = isError
	a.statusDeadline = time.Now().Add(statusTTL)
}

func (a *App) statusExpiry() tea.Cmd {
	deadline := a.statusDeadline
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{deadline: deadline}
	})
}

// resize distributes the window between the panes.
func (a *App) resize() {
	// Title bar, status line, help bar.
	contentHeight := max(8, a.height-3)

	if a.narrow() {
		h := contentHeight / 3
		a.grid.SetSize(a.width-2, contentHeight-2*h-2)
		a.habits.SetSize(a.width-2, h-2)
		a.settings.SetSize(a.width-2, h-2)
	} else {
		side := max(24, a.width/3)
		a.grid.SetSize(a.width-side-4, contentHeight-2)
		a.habits.SetSize(side, contentHeight/2-2)
		a.settings.SetSize(side, contentHeight-contentHeight/2-2)
	}
	a.help.SetSize(a.width, a.height)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case statusExpiredMsg:
		if msg.deadline.Equal(a.statusDeadline) {
			a.status = ""
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		if a.help.Visible() || a.confirmDeleteID != "" {
			return a, nil
		}
		return a, a.grid.Update(msg)
	}

	return a.handleResult(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.help.Visible() {
		return a, a.help.Update(msg)
	}

	if a.confirmDeleteID != "" {
		return a.handleConfirmKey(msg)
	}

	if !a.inputActive() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.Help):
			a.help.Show()
			return a, nil

		case key.Matches(msg, a.keys.NextPane):
			a.setFocus((a.focused + 1) % paneCount)
			return a, nil

		case key.Matches(msg, a.keys.Pane1):
			a.setFocus(paneGrid)
			return a, nil

		case key.Matches(msg, a.keys.Pane2):
			a.setFocus(paneHabits)
			return a, nil

		case key.Matches(msg, a.keys.Pane3):
			a.setFocus(paneSettings)
			return a, nil
		}

		// Deletion is intercepted here so the confirmation overlay can
		// run before the pane acts.
		if a.focused == paneHabits && key.Matches(msg, a.habits.keys.Delete) {
			return a, a.requestDelete()
		}
	}

	switch a.focused {
	case paneGrid:
		return a, a.grid.Update(msg)
	case paneHabits:
		return a, a.habits.Update(msg)
	case paneSettings:
		return a, a.settings.Update(msg)
	}
	return a, nil
}

// requestDelete starts deletion of the habit under the cursor, asking first
// when confirmations are enabled.
func (a *App) requestDelete() tea.Cmd {
	id, ok := a.habits.CursorID()
	if !ok {
		return nil
	}
	if !a.cfg.UX.ConfirmDeletions {
		return deleteHabitCmd(a.sess, id)
	}
	name := id
	if h := a.sess.Settings().Habit(id); h != nil {
		name = h.Name
	}
	a.confirmDeleteID = id
	a.confirmDeleteName = name
	return nil
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := a.confirmDeleteID
		a.confirmDeleteID = ""
		a.confirmDeleteName = ""
		return a, deleteHabitCmd(a.sess, id)
	case "n", "N", "esc", "q":
		a.confirmDeleteID = ""
		a.confirmDeleteName = ""
	}
	return a, nil
}

// handleResult reacts to persistence result messages: fan them out to the
// panes and surface a status line.
func (a *App) handleResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{
		a.grid.Update(msg),
		a.habits.Update(msg),
		a.settings.Update(msg),
	}

	switch msg := msg.(type) {
	case dayToggledMsg:
		switch {
		case msg.err != nil:
			cmds = append(cmds, a.setStatus(msg.err.Error(), true))
		case msg.done:
			cmds = append(cmds, a.setStatus(msg.date+" done", false))
		default:
			cmds = append(cmds, a.setStatus(msg.date+" cleared", false))
		}
		cmds = append(cmds, a.demotionStatus(msg.demoted))

	case habitAddedMsg:
		if msg.err != nil {
			cmds = append(cmds, a.setStatus(msg.err.Error(), true))
		} else if msg.habit != nil {
			cmds = append(cmds, a.setStatus("added "+msg.habit.Name, false))
		}
		cmds = append(cmds, a.demotionStatus(msg.demoted))

	case habitRenamedMsg:
		if msg.ok {
			cmds = append(cmds, a.setStatus("renamed to "+msg.name, false))
		}
		cmds = append(cmds, a.demotionStatus(msg.demoted))

	case habitDeletedMsg:
		if msg.ok {
			cmds = append(cmds, a.setStatus("deleted "+msg.name, false))
		}
		cmds = append(cmds, a.demotionStatus(msg.demoted))

	case habitSelectedMsg:
		cmds = append(cmds, a.demotionStatus(msg.demoted))

	case yearSetMsg:
		if !msg.ok {
			cmds = append(cmds, a.setStatus(fmt.Sprintf("year %d out of range", msg.year), true))
		}
		cmds = append(cmds, a.demotionStatus(msg.demoted))

	case storageConfigSetMsg:
		if msg.demoted {
			cmds = append(cmds, a.setStatus("storage switch failed, staying embedded", true))
		} else {
			cmds = append(cmds, a.setStatus("storage: "+string(msg.cfg.Mode), false))
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) demotionStatus(demoted bool) tea.Cmd {
	if !demoted {
		return nil
	}
	return a.setStatus("save failed, data kept in the config store", true)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.help.Visible() {
		return a.help.View()
	}

	title := a.styles.TitleStyle.Render("habitator")
	date := a.styles.DateStyle.Render(time.Now().Format("Mon Jan 2 2006"))
	titleBar := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", date)

	var content string
	if a.narrow() {
		content = lipgloss.JoinVertical(lipgloss.Left,
			a.grid.View(), a.habits.View(), a.settings.View())
	} else {
		right := lipgloss.JoinVertical(lipgloss.Left,
			a.habits.View(), a.settings.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, a.grid.View(), right)
	}

	statusLine := ""
	switch {
	case a.confirmDeleteID != "":
		statusLine = a.styles.ErrorStyle.Render(
			fmt.Sprintf("delete %q? (y/n)", a.confirmDeleteName))
	case a.status != "":
		if a.statusIsError {
			statusLine = a.styles.ErrorStyle.Render(a.status)
		} else {
			statusLine = a.styles.StatusStyle.Render(a.status)
		}
	}

	helpBar := a.styles.RenderHelp(
		"tab", "pane",
		"?", "help",
		"q", "quit",
	)

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, content, statusLine, helpBar)
}

// Run starts the TUI on the given session.
func Run(sess *session.Session, cfg *config.Config) error {
	app := NewApp(sess, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
