// Package settings defines the tracker's persisted data model and the
// normalization rules that turn any on-disk record, current or legacy,
// into a canonical in-memory Settings value.
package settings

import "encoding/json"

// DateFormat is the layout of every completed-day entry.
const DateFormat = "2006-01-02"

// Year bounds; values outside the open interval are ignored.
const (
	MinYear = 1900
	MaxYear = 3000
)

// DefaultHabitName is used for synthesized and unnamed habits.
const DefaultHabitName = "Habit"

// StorageMode selects where the settings document lives.
type StorageMode string

const (
	// ModeEmbedded keeps settings inside the embedded config store document.
	ModeEmbedded StorageMode = "embedded"
	// ModeFixedVaultPath keeps settings at a fixed vault-relative file.
	ModeFixedVaultPath StorageMode = "fixed-vault-path"
	// ModeCustomVaultDir keeps settings in a user-chosen vault-relative
	// directory, with a fixed filename.
	ModeCustomVaultDir StorageMode = "custom-vault-dir"
)

// Habit is one tracked behavior with its own completion record.
type Habit struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CompletedDays []string `json:"completedDays"`
}

// Settings is the whole persisted state of the tracker.
type Settings struct {
	Year          int     `json:"year"`
	Habits        []Habit `json:"habits"`
	ActiveHabitID *string `json:"activeHabitId"`
}

// StorageConfig controls the persistence location. It is always persisted in
// the embedded config store, regardless of mode.
type StorageConfig struct {
	Mode         StorageMode `json:"storageMode"`
	CustomSubdir string      `json:"customSubdir"`
}

// Normalized returns the config with the mode defaulted and the subdir
// sanitized.
func (c StorageConfig) Normalized() StorageConfig {
	switch c.Mode {
	case ModeEmbedded, ModeFixedVaultPath, ModeCustomVaultDir:
	default:
		c.Mode = ModeEmbedded
	}
	c.CustomSubdir = SanitizeSubdir(c.CustomSubdir)
	return c
}

// Equal reports whether two configs agree on mode and subdir.
func (c StorageConfig) Equal(other StorageConfig) bool {
	return c.Mode == other.Mode && c.CustomSubdir == other.CustomSubdir
}

// Record is the loosely-typed on-disk shape of the settings document. A nil
// Habits slice means the field was absent (or not list-shaped), which is what
// discriminates a legacy record from a current one.
type Record struct {
	Year          *int          `json:"year,omitempty"`
	Habits        []HabitRecord `json:"habits,omitempty"`
	ActiveHabitID *string       `json:"activeHabitId,omitempty"`

	// CompletedDays is the pre-multi-habit schema: a single top-level day
	// list. Only consulted when Habits is absent. HasCompletedDays records
	// that the key was present at all, since a wrong-shaped value still
	// triggers migration (with an empty day set).
	CompletedDays    []string `json:"completedDays,omitempty"`
	HasCompletedDays bool     `json:"-"`
}

// HabitRecord is the loosely-typed on-disk shape of one habit.
type HabitRecord struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	CompletedDays []string `json:"completedDays,omitempty"`
}

// UnmarshalJSON decodes a record field by field, treating any wrong-typed
// field the same as an absent one. The document as a whole must still be a
// JSON object; anything else is the caller's "no data here" case.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Record{}
	if raw, ok := fields["year"]; ok {
		var year int
		if json.Unmarshal(raw, &year) == nil {
			r.Year = &year
		}
	}
	if raw, ok := fields["habits"]; ok {
		var habits []json.RawMessage
		if json.Unmarshal(raw, &habits) == nil {
			r.Habits = make([]HabitRecord, 0, len(habits))
			for _, rawHabit := range habits {
				var h HabitRecord
				if err := h.unmarshalLoose(rawHabit); err == nil {
					r.Habits = append(r.Habits, h)
				}
			}
		}
	}
	if raw, ok := fields["activeHabitId"]; ok {
		var id string
		if json.Unmarshal(raw, &id) == nil {
			r.ActiveHabitID = &id
		}
	}
	if raw, ok := fields["completedDays"]; ok {
		r.HasCompletedDays = true
		r.CompletedDays = decodeDayList(raw)
	}
	return nil
}

func (h *HabitRecord) unmarshalLoose(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*h = HabitRecord{}
	if raw, ok := fields["id"]; ok {
		_ = json.Unmarshal(raw, &h.ID)
	}
	if raw, ok := fields["name"]; ok {
		_ = json.Unmarshal(raw, &h.Name)
	}
	if raw, ok := fields["completedDays"]; ok {
		h.CompletedDays = decodeDayList(raw)
	}
	return nil
}

// decodeDayList coerces a day list, dropping non-string elements. A value
// that is not list-shaped decodes to nil (treated as absent).
func decodeDayList(raw json.RawMessage) []string {
	var elems []json.RawMessage
	if json.Unmarshal(raw, &elems) != nil {
		return nil
	}
	days := make([]string, 0, len(elems))
	for _, e := range elems {
		var day string
		if json.Unmarshal(e, &day) == nil {
			days = append(days, day)
		}
	}
	return days
}
