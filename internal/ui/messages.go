// Package ui provides the terminal interface for habitator.
// This file defines message types for persistence operations using the
// Bubble Tea command pattern. Every mutation goes through a command so the
// event loop stays non-blocking and save demotions surface as messages.
package ui

import (
	"github.com/tokrqui/habitator/internal/settings"
)

// dayToggledMsg is sent when a day's completion was flipped and persisted.
type dayToggledMsg struct {
	habitID string
	date    string
	done    bool
	demoted bool
	err     error
}

// habitAddedMsg is sent when a new habit was created and persisted.
type habitAddedMsg struct {
	habit   *settings.Habit
	demoted bool
	err     error
}

// habitRenamedMsg is sent when a habit was renamed and persisted.
type habitRenamedMsg struct {
	id      string
	name    string
	ok      bool
	demoted bool
}

// habitDeletedMsg is sent when a habit was removed and persisted.
type habitDeletedMsg struct {
	id      string
	name    string
	ok      bool
	demoted bool
}

// habitSelectedMsg is sent when the active habit changed.
type habitSelectedMsg struct {
	id      string
	ok      bool
	demoted bool
}

// yearSetMsg is sent when the displayed year changed. ok is false when the
// requested year was out of range and ignored.
type yearSetMsg struct {
	year    int
	ok      bool
	demoted bool
}

// storageConfigSetMsg is sent after a storage backend switch.
type storageConfigSetMsg struct {
	cfg     settings.StorageConfig
	demoted bool
}
