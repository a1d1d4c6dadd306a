package settings

import "time"

// Normalize turns an arbitrary, possibly partial or legacy-shaped record into
// a canonical Settings value. It is pure (no I/O) and idempotent: normalizing
// an already-normalized record yields an equivalent value.
func Normalize(rec Record) *Settings {
	return NormalizeAt(rec, time.Now())
}

// NormalizeAt is Normalize with an explicit clock, for deterministic tests.
func NormalizeAt(rec Record, now time.Time) *Settings {
	s := &Settings{
		Year:   now.Year(),
		Habits: []Habit{},
	}

	// Overlay fields present in the record. An out-of-range year is invalid
	// input and the default is retained.
	if rec.Year != nil && *rec.Year > MinYear && *rec.Year < MaxYear {
		s.Year = *rec.Year
	}
	for _, h := range rec.Habits {
		s.Habits = append(s.Habits, Habit{
			ID:            h.ID,
			Name:          h.Name,
			CompletedDays: h.CompletedDays,
		})
	}
	if rec.ActiveHabitID != nil {
		id := *rec.ActiveHabitID
		s.ActiveHabitID = &id
	}

	// Legacy migration: a record with no habits but a top-level completedDays
	// field is the pre-multi-habit schema. A record that already has habits
	// never merges a stray legacy field; migrated data takes precedence.
	if len(s.Habits) == 0 && rec.HasCompletedDays {
		habit := Habit{
			ID:            NewID(),
			Name:          DefaultHabitName,
			CompletedDays: append([]string{}, rec.CompletedDays...),
		}
		s.Habits = []Habit{habit}
		id := habit.ID
		s.ActiveHabitID = &id
	}

	// Still empty: fall back to a fresh default habit. The copy is built
	// here, never shared, so one instance's mutations cannot leak into
	// another's defaults.
	if len(s.Habits) == 0 {
		s.Habits = []Habit{{
			ID:            NewID(),
			Name:          DefaultHabitName,
			CompletedDays: []string{},
		}}
	}

	// Per-habit repair.
	for i := range s.Habits {
		if s.Habits[i].ID == "" {
			s.Habits[i].ID = NewID()
		}
		if s.Habits[i].Name == "" {
			s.Habits[i].Name = DefaultHabitName
		}
		s.Habits[i].CompletedDays = dedupDays(s.Habits[i].CompletedDays)
	}

	// The active id must reference an existing habit; unset or dangling ids
	// are corrected to the first habit.
	if s.ActiveHabitID == nil || s.habitIndex(*s.ActiveHabitID) < 0 {
		id := s.Habits[0].ID
		s.ActiveHabitID = &id
	}

	return s
}

// Record converts normalized settings back into the on-disk record shape.
func (s *Settings) Record() Record {
	year := s.Year
	rec := Record{Year: &year}
	for _, h := range s.Habits {
		rec.Habits = append(rec.Habits, HabitRecord{
			ID:            h.ID,
			Name:          h.Name,
			CompletedDays: h.CompletedDays,
		})
	}
	if s.ActiveHabitID != nil {
		id := *s.ActiveHabitID
		rec.ActiveHabitID = &id
	}
	return rec
}

func (s *Settings) habitIndex(id string) int {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return i
		}
	}
	return -1
}

// dedupDays removes duplicate entries, preserving first-seen order. The day
// set is order-insensitive on disk but the stored order is kept stable.
func dedupDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
