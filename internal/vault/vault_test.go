package vault

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tokrqui/habitator/internal/settings"
)

func TestDirFS_WriteReadExists(t *testing.T) {
	fs := NewDirFS(filepath.Join(t.TempDir(), "vault"))

	if fs.Exists("data.json") {
		t.Error("Exists() = true before write")
	}
	if _, err := fs.Read("data.json"); err == nil {
		t.Error("Read() expected error for missing file")
	}

	if err := fs.Write("data.json", []byte(`{"year":2026}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !fs.Exists("data.json") {
		t.Error("Exists() = false after write")
	}

	data, err := fs.Read("data.json")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != `{"year":2026}` {
		t.Errorf("Read() = %q", data)
	}
}

func TestDirFS_Mkdir(t *testing.T) {
	fs := NewDirFS(filepath.Join(t.TempDir(), "vault"))

	if err := fs.Mkdir("habits"); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	// Existing directory is fine.
	if err := fs.Mkdir("habits"); err != nil {
		t.Fatalf("Mkdir() on existing dir error = %v", err)
	}

	if err := fs.Write("habits/data.json", []byte("{}")); err != nil {
		t.Fatalf("Write() into subdir error = %v", err)
	}
	if !fs.Exists("habits/data.json") {
		t.Error("file in subdir should exist")
	}
}

func TestDirFS_PathsStayInsideRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	fs := NewDirFS(root)

	outside := filepath.Join(filepath.Dir(root), "escape.json")
	if err := os.WriteFile(outside, []byte("secret"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if fs.Exists("../escape.json") {
		t.Error("Exists() escaped the vault root")
	}
	if _, err := fs.Read("../escape.json"); err == nil {
		// Cleaned to /escape.json inside the root, which does not exist.
		t.Error("Read() escaped the vault root")
	}
}

func TestFileConfigStore_LoadMissing(t *testing.T) {
	store := NewFileConfigStore(filepath.Join(t.TempDir(), "data.json"))

	doc := store.Load()
	if doc.Config.Mode != "" || doc.Data != nil {
		t.Errorf("Load() of missing file = %+v, want empty document", doc)
	}
}

func TestFileConfigStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	doc := NewFileConfigStore(path).Load()
	if doc.Config.Mode != "" || doc.Data != nil {
		t.Errorf("Load() of corrupt file = %+v, want empty document", doc)
	}
}

func TestFileConfigStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	store := NewFileConfigStore(path)

	payload, _ := json.Marshal(map[string]int{"year": 2026})
	doc := Document{
		Config: settings.StorageConfig{Mode: settings.ModeEmbedded, CustomSubdir: "habit-tracker"},
		Data:   payload,
	}
	if err := store.Save(doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := store.Load()
	if loaded.Config.Mode != settings.ModeEmbedded {
		t.Errorf("Mode = %q, want embedded", loaded.Config.Mode)
	}
	if string(loaded.Data) != string(payload) {
		t.Errorf("Data = %s, want %s", loaded.Data, payload)
	}

	// Saving again keeps a .bak of the previous document.
	if err := store.Save(Document{Config: doc.Config}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected .bak alongside the store document: %v", err)
	}
}
