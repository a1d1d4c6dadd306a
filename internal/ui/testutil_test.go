package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/resolver"
	"github.com/tokrqui/habitator/internal/session"
	"github.com/tokrqui/habitator/internal/vault"
)

func init() {
	// Deterministic rendering regardless of the terminal running the tests.
	lipgloss.SetColorProfile(termenv.Ascii)
}

// newTestSession opens a session backed by a real vault and config store in a
// temp dir.
func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	dir := t.TempDir()
	fs := vault.NewDirFS(filepath.Join(dir, "vault"))
	store := vault.NewFileConfigStore(filepath.Join(dir, "store.json"))
	return session.Open(resolver.New(fs, store))
}

// newTestApp builds an app with default config and a terminal size applied.
func newTestApp(t *testing.T) *App {
	t.Helper()
	app := NewApp(newTestSession(t), config.Default())
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

// keyRunes builds a plain character key message.
func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// keyType builds a special key message.
func keyType(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// runCmd executes a command and returns its message, nil when there is no
// command to run.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
