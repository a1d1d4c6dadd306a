package settings

import (
	"fmt"
	"strings"
	"time"
)

const maxHabitNameLen = 60

// AddHabit appends a new habit and makes it active. An empty name gets the
// default placeholder.
func (s *Settings) AddHabit(name string) (*Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultHabitName
	}
	if len(name) > maxHabitNameLen {
		return nil, fmt.Errorf("habit name too long (max %d)", maxHabitNameLen)
	}

	habit := Habit{
		ID:            NewID(),
		Name:          name,
		CompletedDays: []string{},
	}
	s.Habits = append(s.Habits, habit)
	id := habit.ID
	s.ActiveHabitID = &id
	return &s.Habits[len(s.Habits)-1], nil
}

// RemoveHabit deletes the habit with the given id. If the removed habit was
// active, the first remaining habit becomes active, or nil when none remain.
func (s *Settings) RemoveHabit(id string) bool {
	i := s.habitIndex(id)
	if i < 0 {
		return false
	}
	s.Habits = append(s.Habits[:i], s.Habits[i+1:]...)

	if s.ActiveHabitID != nil && *s.ActiveHabitID == id {
		if len(s.Habits) > 0 {
			first := s.Habits[0].ID
			s.ActiveHabitID = &first
		} else {
			s.ActiveHabitID = nil
		}
	}
	return true
}

// RenameHabit sets a habit's display name, defaulting empty input.
func (s *Settings) RenameHabit(id, name string) bool {
	i := s.habitIndex(id)
	if i < 0 {
		return false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultHabitName
	}
	s.Habits[i].Name = name
	return true
}

// SetActive selects the habit with the given id. Unknown ids are ignored.
func (s *Settings) SetActive(id string) bool {
	if s.habitIndex(id) < 0 {
		return false
	}
	s.ActiveHabitID = &id
	return true
}

// Active returns the currently selected habit, or nil.
func (s *Settings) Active() *Habit {
	if s.ActiveHabitID == nil {
		return nil
	}
	if i := s.habitIndex(*s.ActiveHabitID); i >= 0 {
		return &s.Habits[i]
	}
	return nil
}

// Habit returns the habit with the given id, or nil.
func (s *Settings) Habit(id string) *Habit {
	if i := s.habitIndex(id); i >= 0 {
		return &s.Habits[i]
	}
	return nil
}

// SetYear updates the displayed year. Out-of-range input is ignored and the
// prior value retained; the report says whether the year changed.
func (s *Settings) SetYear(year int) bool {
	if year <= MinYear || year >= MaxYear {
		return false
	}
	s.Year = year
	return true
}

// ToggleDay flips a habit's completion for one YYYY-MM-DD date and reports
// the new state. Marking a marked date unmarks it; the day set never holds
// duplicates, so repeated toggles are idempotent pair-wise.
func (s *Settings) ToggleDay(habitID, date string) (bool, error) {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return false, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	i := s.habitIndex(habitID)
	if i < 0 {
		return false, fmt.Errorf("habit not found: %s", habitID)
	}

	if s.Habits[i].DoneOn(date) {
		s.Habits[i].unmarkDay(date)
		return false, nil
	}
	s.Habits[i].markDay(date)
	return true, nil
}

// SetDay sets a habit's completion for a date to an explicit state. Marking
// an already-marked date or unmarking an absent one is a no-op.
func (s *Settings) SetDay(habitID, date string, done bool) error {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	i := s.habitIndex(habitID)
	if i < 0 {
		return fmt.Errorf("habit not found: %s", habitID)
	}

	if done {
		s.Habits[i].markDay(date)
	} else {
		s.Habits[i].unmarkDay(date)
	}
	return nil
}

// DoneOn reports whether the habit is marked complete on a date.
func (h *Habit) DoneOn(date string) bool {
	for _, d := range h.CompletedDays {
		if d == date {
			return true
		}
	}
	return false
}

func (h *Habit) markDay(date string) {
	if h.DoneOn(date) {
		return
	}
	h.CompletedDays = append(h.CompletedDays, date)
}

func (h *Habit) unmarkDay(date string) {
	days := h.CompletedDays[:0]
	for _, d := range h.CompletedDays {
		if d != date {
			days = append(days, d)
		}
	}
	h.CompletedDays = days
}
