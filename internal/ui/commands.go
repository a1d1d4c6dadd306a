// Package ui provides the terminal interface for habitator.
// This file contains tea.Cmd factories that wrap session operations. Each
// command persists through the session and reports the result, including
// whether the save had to fall back to the embedded store, as a message
// defined in messages.go.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tokrqui/habitator/internal/session"
	"github.com/tokrqui/habitator/internal/settings"
)

// toggleDayCmd returns a command that flips a habit's completion for a date.
func toggleDayCmd(sess *session.Session, habitID, date string) tea.Cmd {
	return func() tea.Msg {
		done, err := sess.ToggleDay(habitID, date)
		return dayToggledMsg{
			habitID: habitID,
			date:    date,
			done:    done,
			demoted: sess.TakeDemotionNotice(),
			err:     err,
		}
	}
}

// addHabitCmd returns a command that creates a new habit and makes it active.
func addHabitCmd(sess *session.Session, name string) tea.Cmd {
	return func() tea.Msg {
		habit, err := sess.AddHabit(name)
		return habitAddedMsg{
			habit:   habit,
			demoted: sess.TakeDemotionNotice(),
			err:     err,
		}
	}
}

// renameHabitCmd returns a command that renames a habit.
func renameHabitCmd(sess *session.Session, id, name string) tea.Cmd {
	return func() tea.Msg {
		ok := sess.RenameHabit(id, name)
		return habitRenamedMsg{
			id:      id,
			name:    name,
			ok:      ok,
			demoted: sess.TakeDemotionNotice(),
		}
	}
}

// deleteHabitCmd returns a command that removes a habit.
func deleteHabitCmd(sess *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		var name string
		if h := sess.Settings().Habit(id); h != nil {
			name = h.Name
		}
		ok := sess.RemoveHabit(id)
		return habitDeletedMsg{
			id:      id,
			name:    name,
			ok:      ok,
			demoted: sess.TakeDemotionNotice(),
		}
	}
}

// selectHabitCmd returns a command that switches the active habit.
func selectHabitCmd(sess *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		ok := sess.SetActive(id)
		return habitSelectedMsg{
			id:      id,
			ok:      ok,
			demoted: sess.TakeDemotionNotice(),
		}
	}
}

// setYearCmd returns a command that changes the displayed year.
func setYearCmd(sess *session.Session, year int) tea.Cmd {
	return func() tea.Msg {
		ok := sess.SetYear(year)
		return yearSetMsg{
			year:    year,
			ok:      ok,
			demoted: sess.TakeDemotionNotice(),
		}
	}
}

// setStorageConfigCmd returns a command that switches the storage backend.
func setStorageConfigCmd(sess *session.Session, cfg settings.StorageConfig) tea.Cmd {
	return func() tea.Msg {
		sess.SetStorageConfig(cfg)
		return storageConfigSetMsg{
			cfg:     sess.StorageConfig(),
			demoted: sess.TakeDemotionNotice(),
		}
	}
}
