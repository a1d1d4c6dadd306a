package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tokrqui/habitator/internal/config"
	"github.com/tokrqui/habitator/internal/settings"
)

func newTestSettingsPane(t *testing.T) *SettingsPane {
	t.Helper()
	p := NewSettingsPaneWithKeys(newTestSession(t), NewStyles(config.Default()), &config.KeysConfig{})
	p.SetSize(44, 14)
	p.SetFocused(true)
	return p
}

func TestSettingsPane_StartsOnCurrentMode(t *testing.T) {
	p := newTestSettingsPane(t)
	if p.cursor != 0 {
		t.Errorf("cursor = %d, want 0 (embedded)", p.cursor)
	}
}

func TestSettingsPane_SwitchToVaultFile(t *testing.T) {
	p := newTestSettingsPane(t)

	p.Update(keyRunes("j"))
	cmd := p.Update(keyType(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("confirming a mode produced no command")
	}
	raw := runCmd(cmd)
	msg, ok := raw.(storageConfigSetMsg)
	if !ok {
		t.Fatalf("message = %T, want storageConfigSetMsg", raw)
	}
	if msg.demoted {
		t.Fatal("switch to a writable vault was demoted")
	}
	if msg.cfg.Mode != settings.ModeFixedVaultPath {
		t.Errorf("mode = %q, want %q", msg.cfg.Mode, settings.ModeFixedVaultPath)
	}

	p.Update(raw)
	if p.cursor != 1 {
		t.Errorf("cursor = %d after switch, want 1", p.cursor)
	}
}

func TestSettingsPane_CustomDirOpensInput(t *testing.T) {
	p := newTestSettingsPane(t)

	p.Update(keyRunes("j"))
	p.Update(keyRunes("j"))
	cmd := p.Update(keyType(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("entering the folder input produced no blink command")
	}
	if !p.InputActive() {
		t.Fatal("InputActive() = false after choosing the custom mode")
	}

	p.input.SetValue("tracking/habits")
	raw := runCmd(p.Update(keyType(tea.KeyEnter)))
	msg, ok := raw.(storageConfigSetMsg)
	if !ok {
		t.Fatalf("message = %T, want storageConfigSetMsg", raw)
	}
	if msg.cfg.Mode != settings.ModeCustomVaultDir {
		t.Errorf("mode = %q, want %q", msg.cfg.Mode, settings.ModeCustomVaultDir)
	}
	if msg.cfg.CustomSubdir != "tracking/habits" {
		t.Errorf("subdir = %q, want tracking/habits", msg.cfg.CustomSubdir)
	}
}

func TestSettingsPane_InputCancel(t *testing.T) {
	p := newTestSettingsPane(t)

	p.Update(keyRunes("j"))
	p.Update(keyRunes("j"))
	p.Update(keyType(tea.KeyEnter))
	p.Update(keyType(tea.KeyEsc))

	if p.InputActive() {
		t.Error("input still active after cancel")
	}
	if got := p.sess.StorageConfig().Mode; got != settings.ModeEmbedded {
		t.Errorf("mode = %q after cancel, want embedded", got)
	}
}

func TestSettingsPane_View(t *testing.T) {
	p := newTestSettingsPane(t)

	view := p.View()
	for _, want := range []string{"Storage", "Embedded", "Vault file", "Custom folder", "config store"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	msg := runCmd(setStorageConfigCmd(p.sess, settings.StorageConfig{Mode: settings.ModeFixedVaultPath}))
	p.Update(msg)
	view = p.View()
	if !strings.Contains(view, "habit-tracker.json") {
		t.Error("View() missing the resolved vault path")
	}
}
