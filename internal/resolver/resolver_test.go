package resolver

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tokrqui/habitator/internal/settings"
	"github.com/tokrqui/habitator/internal/vault"
)

// memStore is an in-memory embedded config store.
type memStore struct {
	doc   vault.Document
	saves int
}

func (m *memStore) Load() vault.Document { return m.doc }

func (m *memStore) Save(doc vault.Document) error {
	m.doc = doc
	m.saves++
	return nil
}

// fakeFS is an in-memory vault filesystem with injectable failures.
type fakeFS struct {
	files      map[string][]byte
	failReads  bool
	failWrites bool
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string][]byte)}
}

func (f *fakeFS) Exists(rel string) bool {
	_, ok := f.files[rel]
	return ok
}

func (f *fakeFS) Read(rel string) ([]byte, error) {
	if f.failReads {
		return nil, errors.New("read denied")
	}
	data, ok := f.files[rel]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *fakeFS) Write(rel string, data []byte) error {
	if f.failWrites {
		return errors.New("write denied")
	}
	f.files[rel] = data
	return nil
}

func (f *fakeFS) Mkdir(rel string) error {
	if f.failWrites {
		return errors.New("mkdir denied")
	}
	return nil
}

func storedSettings(t *testing.T, store *memStore) *settings.Settings {
	t.Helper()
	var rec settings.Record
	if err := json.Unmarshal(store.doc.Data, &rec); err != nil {
		t.Fatalf("embedded payload is not a settings record: %v", err)
	}
	return settings.Normalize(rec)
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		cfg  settings.StorageConfig
		want string
	}{
		{"embedded uses the legacy fixed path", settings.StorageConfig{Mode: settings.ModeEmbedded}, FixedVaultPath},
		{"fixed", settings.StorageConfig{Mode: settings.ModeFixedVaultPath}, FixedVaultPath},
		{"custom", settings.StorageConfig{Mode: settings.ModeCustomVaultDir, CustomSubdir: "notes/habits"}, "notes/habits/" + DataFileName},
		{"custom with backslashes", settings.StorageConfig{Mode: settings.ModeCustomVaultDir, CustomSubdir: `a\b`}, "a/b/" + DataFileName},
		{"custom traversal falls back to default subdir", settings.StorageConfig{Mode: settings.ModeCustomVaultDir, CustomSubdir: "../../etc"}, settings.DefaultSubdir + "/" + DataFileName},
		{"custom empty subdir", settings.StorageConfig{Mode: settings.ModeCustomVaultDir}, settings.DefaultSubdir + "/" + DataFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePath(tt.cfg)
			if got != tt.want {
				t.Errorf("ResolvePath(%+v) = %q, want %q", tt.cfg, got, tt.want)
			}
			// Pure: repeated calls agree.
			if again := ResolvePath(tt.cfg); again != got {
				t.Error("ResolvePath is not deterministic")
			}
		})
	}
}

func TestLoad_EmptyEverything(t *testing.T) {
	store := &memStore{}
	r := New(newFakeFS(), store)

	s, demoted := r.Load()
	if demoted {
		t.Fatal("Load() demoted on a healthy backend")
	}
	if len(s.Habits) != 1 || s.Habits[0].Name != settings.DefaultHabitName {
		t.Fatalf("Load() = %+v, want default settings", s)
	}
	if r.Config().Mode != settings.ModeEmbedded {
		t.Errorf("Mode = %q, want embedded by default", r.Config().Mode)
	}

	// The self-healing write persisted the normalized record.
	if store.doc.Data == nil {
		t.Fatal("embedded payload not persisted by Load()")
	}
	persisted := storedSettings(t, store)
	if persisted.Habits[0].ID != s.Habits[0].ID {
		t.Error("persisted payload does not match the loaded settings")
	}
}

func TestLoad_EmbeddedPayload(t *testing.T) {
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeEmbedded},
		Data:   []byte(`{"year":2024,"habits":[{"id":"a","name":"X","completedDays":[]}],"activeHabitId":"a"}`),
	}}
	r := New(newFakeFS(), store)

	s, _ := r.Load()
	if s.Year != 2024 || len(s.Habits) != 1 || s.Habits[0].ID != "a" {
		t.Errorf("Load() = %+v, want the embedded payload", s)
	}
}

func TestLoad_ConfiguredFile(t *testing.T) {
	fs := newFakeFS()
	fs.files["notes/"+DataFileName] = []byte(`{"year":2023,"habits":[{"id":"h1","name":"Run","completedDays":["2023-06-01"]}]}`)
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeCustomVaultDir, CustomSubdir: "notes"},
	}}

	s, _ := New(fs, store).Load()
	if s.Year != 2023 {
		t.Errorf("Year = %d, want 2023", s.Year)
	}
	if s.Habits[0].ID != "h1" {
		t.Errorf("habit id = %q, want h1", s.Habits[0].ID)
	}
}

func TestLoad_LegacyFixedPathFallback(t *testing.T) {
	fs := newFakeFS()
	fs.files[FixedVaultPath] = []byte(`{"completedDays":["2024-01-01","2024-03-05"]}`)
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeCustomVaultDir, CustomSubdir: "notes"},
	}}
	r := New(fs, store)

	s, _ := r.Load()
	if len(s.Habits) != 1 {
		t.Fatalf("len(Habits) = %d, want 1 migrated habit", len(s.Habits))
	}
	if len(s.Habits[0].CompletedDays) != 2 {
		t.Errorf("CompletedDays = %v, want both legacy dates", s.Habits[0].CompletedDays)
	}

	// Self-healing: the migrated record now lives at the configured path.
	migrated, ok := fs.files["notes/"+DataFileName]
	if !ok {
		t.Fatal("Load() did not persist to the configured path")
	}
	if !strings.Contains(string(migrated), "2024-03-05") {
		t.Error("persisted record is missing migrated data")
	}
}

func TestLoad_CorruptConfiguredFile(t *testing.T) {
	fs := newFakeFS()
	fs.files[FixedVaultPath] = []byte("{definitely not json")
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeFixedVaultPath},
		Data:   []byte(`{"year":2022,"habits":[{"id":"e","name":"Old","completedDays":[]}]}`),
	}}

	// Invalid content reads as "no data here"; the stale embedded payload is
	// the next tier with data.
	s, _ := New(fs, store).Load()
	if s.Year != 2022 || s.Habits[0].ID != "e" {
		t.Errorf("Load() = %+v, want the embedded fallback payload", s)
	}
}

func TestLoad_TotalWhenEverythingFails(t *testing.T) {
	fs := newFakeFS()
	fs.failReads = true
	fs.failWrites = true
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeCustomVaultDir, CustomSubdir: "notes"},
	}}
	r := New(fs, store)

	s, demoted := r.Load()
	if s == nil {
		t.Fatal("Load() = nil; load must be total")
	}
	if !demoted {
		t.Error("Load() should report the failed self-healing write")
	}
	if len(s.Habits) != 1 || s.Habits[0].Name != settings.DefaultHabitName {
		t.Errorf("Load() = %+v, want default settings", s)
	}
	// The self-healing save could not reach the file backend and demoted.
	if r.Config().Mode != settings.ModeEmbedded {
		t.Errorf("Mode = %q, want embedded after failed writes", r.Config().Mode)
	}
}

func TestSave_FileBacked(t *testing.T) {
	fs := newFakeFS()
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeCustomVaultDir, CustomSubdir: "notes"},
	}}
	r := New(fs, store)
	s := settings.Normalize(settings.Record{})

	if demoted := r.Save(s); demoted {
		t.Fatal("Save() demoted on a healthy backend")
	}

	data, ok := fs.files["notes/"+DataFileName]
	if !ok {
		t.Fatal("Save() did not write the vault file")
	}
	var rec settings.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("vault file is not a settings record: %v", err)
	}
	// Config persisted to the embedded store, without an inline payload.
	if store.doc.Config.Mode != settings.ModeCustomVaultDir {
		t.Errorf("stored mode = %q, want custom-vault-dir", store.doc.Config.Mode)
	}
	if store.doc.Data != nil {
		t.Error("embedded payload should be absent in file-backed mode")
	}
}

func TestSave_DemotesOnWriteFailure(t *testing.T) {
	fs := newFakeFS()
	fs.failWrites = true
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeFixedVaultPath},
	}}
	r := New(fs, store)
	s := settings.Normalize(settings.Record{})
	s.SetYear(2025)

	if demoted := r.Save(s); !demoted {
		t.Fatal("Save() = false, want demotion report")
	}
	if r.Config().Mode != settings.ModeEmbedded {
		t.Errorf("Mode = %q, want embedded after demotion", r.Config().Mode)
	}

	// Demotion is sticky: later saves go straight to the embedded store.
	if demoted := r.Save(s); demoted {
		t.Error("Save() after demotion should not report again")
	}

	// The settings are retrievable from the embedded store on the next load.
	loaded, _ := New(fs, store).Load()
	if loaded.Year != 2025 {
		t.Errorf("Year = %d after reload, want 2025", loaded.Year)
	}
}

func TestSetStorageConfig_IdenticalIsNoop(t *testing.T) {
	store := &memStore{doc: vault.Document{
		Config: settings.StorageConfig{Mode: settings.ModeFixedVaultPath},
	}}
	r := New(newFakeFS(), store)
	s := settings.Normalize(settings.Record{})

	before := store.saves
	r.SetStorageConfig(settings.StorageConfig{Mode: settings.ModeFixedVaultPath}, s)
	if store.saves != before {
		t.Error("identical config should not touch the store")
	}
}

func TestSetStorageConfig_WritesNewLocationFirst(t *testing.T) {
	fs := newFakeFS()
	store := &memStore{}
	r := New(fs, store)
	s := settings.Normalize(settings.Record{})

	r.SetStorageConfig(settings.StorageConfig{
		Mode:         settings.ModeCustomVaultDir,
		CustomSubdir: "tracking",
	}, s)

	if _, ok := fs.files["tracking/"+DataFileName]; !ok {
		t.Error("settings were not written to the new location")
	}
	if r.Config().Mode != settings.ModeCustomVaultDir {
		t.Errorf("Mode = %q, want custom-vault-dir", r.Config().Mode)
	}
	if store.doc.Config.Mode != settings.ModeCustomVaultDir {
		t.Error("new config was not persisted to the embedded store")
	}
}

func TestSetStorageConfig_SwitchProceedsOnWriteFailure(t *testing.T) {
	fs := newFakeFS()
	fs.failWrites = true
	store := &memStore{}
	r := New(fs, store)
	s := settings.Normalize(settings.Record{})
	id := s.Habits[0].ID
	if _, err := s.ToggleDay(id, "2026-06-01"); err != nil {
		t.Fatalf("ToggleDay() error = %v", err)
	}

	// The best-effort write fails silently; the config switch still happens.
	r.SetStorageConfig(settings.StorageConfig{Mode: settings.ModeFixedVaultPath}, s)
	if r.Config().Mode != settings.ModeFixedVaultPath {
		t.Errorf("Mode = %q, want fixed-vault-path", r.Config().Mode)
	}

	// The settings stay inline in the embedded store; the switch must not
	// drop the only copy of the data.
	if store.doc.Data == nil {
		t.Fatal("embedded payload dropped during the failed switch")
	}
	kept := storedSettings(t, store)
	if h := kept.Habit(id); h == nil || !h.DoneOn("2026-06-01") {
		t.Errorf("stored payload = %+v, want the pre-switch settings", kept)
	}

	// The next load finds them on the embedded tier and demotes.
	loaded, demoted := New(fs, store).Load()
	if !demoted {
		t.Error("Load() should demote against the unwritable backend")
	}
	if h := loaded.Habit(id); h == nil || !h.DoneOn("2026-06-01") {
		t.Errorf("reloaded settings = %+v, want the pre-switch settings", loaded)
	}
}

func TestSetStorageConfig_SanitizesSubdir(t *testing.T) {
	store := &memStore{}
	r := New(newFakeFS(), store)
	s := settings.Normalize(settings.Record{})

	r.SetStorageConfig(settings.StorageConfig{
		Mode:         settings.ModeCustomVaultDir,
		CustomSubdir: "../../etc",
	}, s)

	if got := r.Config().CustomSubdir; got != settings.DefaultSubdir {
		t.Errorf("CustomSubdir = %q, want %q", got, settings.DefaultSubdir)
	}
}

func TestResolver_AgainstRealVault(t *testing.T) {
	dir := t.TempDir()
	fs := vault.NewDirFS(filepath.Join(dir, "vault"))
	store := vault.NewFileConfigStore(filepath.Join(dir, "config", "data.json"))

	r := New(fs, store)
	r.SetStorageConfig(settings.StorageConfig{
		Mode:         settings.ModeCustomVaultDir,
		CustomSubdir: "tracking",
	}, nil)

	s, _ := r.Load()
	if _, err := s.ToggleDay(s.Habits[0].ID, "2026-04-01"); err != nil {
		t.Fatalf("ToggleDay() error = %v", err)
	}
	if demoted := r.Save(s); demoted {
		t.Fatal("Save() demoted against a real temp dir")
	}

	if !fs.Exists("tracking/" + DataFileName) {
		t.Fatal("vault file missing after save")
	}

	// A fresh resolver over the same directories sees the same state.
	reloaded, _ := New(fs, store).Load()
	if !reloaded.Habits[0].DoneOn("2026-04-01") {
		t.Error("reloaded settings lost the toggled day")
	}
}
