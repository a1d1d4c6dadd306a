// Package session holds the live application state: the current settings
// plus the resolver that persists them. Every mutation goes through a session
// method so the on-disk state never drifts from what the UI shows.
package session

import (
	"github.com/tokrqui/habitator/internal/resolver"
	"github.com/tokrqui/habitator/internal/settings"
)

// Session is the single mutable state object shared by the UI and the CLI
// subcommands. It is not safe for concurrent use; the bubbletea event loop
// serializes access.
type Session struct {
	res     *resolver.Resolver
	current *settings.Settings
	demoted bool
}

// Open loads the settings through the resolver and returns a ready session.
// A demotion during the load's migration write is latched like one during a
// save.
func Open(res *resolver.Resolver) *Session {
	cur, demoted := res.Load()
	return &Session{res: res, current: cur, demoted: demoted}
}

// Settings returns the live settings. Callers must not mutate them directly;
// use the session methods so changes are persisted.
func (s *Session) Settings() *settings.Settings {
	return s.current
}

// StorageConfig returns the effective storage config.
func (s *Session) StorageConfig() settings.StorageConfig {
	return s.res.Config()
}

// Demoted reports whether any save since Open fell back to the embedded
// store. The flag latches; TakeDemotionNotice clears it.
func (s *Session) Demoted() bool {
	return s.demoted
}

// TakeDemotionNotice returns the latched demotion flag and clears it, so the
// UI shows the notice once.
func (s *Session) TakeDemotionNotice() bool {
	d := s.demoted
	s.demoted = false
	return d
}

// Reload re-runs the load chain, discarding unsaved in-memory state. There
// should be none; every mutator persists.
func (s *Session) Reload() {
	cur, demoted := s.res.Load()
	s.current = cur
	if demoted {
		s.demoted = true
	}
}

func (s *Session) persist() {
	if s.res.Save(s.current) {
		s.demoted = true
	}
}

// ToggleDay flips a habit's completion for the given YYYY-MM-DD date and
// persists. It returns the new state of the day.
func (s *Session) ToggleDay(habitID, date string) (bool, error) {
	done, err := s.current.ToggleDay(habitID, date)
	if err != nil {
		return false, err
	}
	s.persist()
	return done, nil
}

// SetDay marks or unmarks a date without toggling, then persists.
func (s *Session) SetDay(habitID, date string, done bool) error {
	if err := s.current.SetDay(habitID, date, done); err != nil {
		return err
	}
	s.persist()
	return nil
}

// AddHabit creates a habit, makes it active, and persists.
func (s *Session) AddHabit(name string) (*settings.Habit, error) {
	h, err := s.current.AddHabit(name)
	if err != nil {
		return nil, err
	}
	s.persist()
	return h, nil
}

// RemoveHabit deletes a habit and persists. Removing the last habit leaves
// an empty list in memory; normalization restores a default habit on the
// next load.
func (s *Session) RemoveHabit(id string) bool {
	if !s.current.RemoveHabit(id) {
		return false
	}
	s.persist()
	return true
}

// RenameHabit renames a habit and persists. Unknown ids are reported, not
// errors.
func (s *Session) RenameHabit(id, name string) bool {
	if !s.current.RenameHabit(id, name) {
		return false
	}
	s.persist()
	return true
}

// SetActive switches the active habit and persists.
func (s *Session) SetActive(id string) bool {
	if !s.current.SetActive(id) {
		return false
	}
	s.persist()
	return true
}

// SetYear changes the displayed year and persists. Out-of-range years are
// ignored.
func (s *Session) SetYear(year int) bool {
	if !s.current.SetYear(year) {
		return false
	}
	s.persist()
	return true
}

// SetStorageConfig switches the storage backend, carrying the live settings
// to the new location. The settings stay live through the switch instead of
// being rebuilt from disk, so an unwritable target cannot drop them; the
// follow-up save surfaces the failure as a demotion.
func (s *Session) SetStorageConfig(cfg settings.StorageConfig) {
	s.res.SetStorageConfig(cfg, s.current)
	s.persist()
}
