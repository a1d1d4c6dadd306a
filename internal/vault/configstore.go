package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tokrqui/habitator/internal/fsutil"
	"github.com/tokrqui/habitator/internal/settings"
)

// Document is the single JSON document held by the embedded config store.
// Data carries the settings payload only while the storage mode is embedded;
// stale payloads from earlier versions are kept readable as a fallback tier.
type Document struct {
	Config settings.StorageConfig `json:"config"`
	Data   json.RawMessage        `json:"data,omitempty"`
}

// ConfigStore is the embedded per-app key-value store: one opaque document
// with load/save semantics. Loads never fail; a missing or corrupt document
// reads as empty.
type ConfigStore interface {
	Load() Document
	Save(doc Document) error
}

// FileConfigStore keeps the document as a JSON file outside the vault.
type FileConfigStore struct {
	path string
}

// NewFileConfigStore returns a store persisting at path.
func NewFileConfigStore(path string) *FileConfigStore {
	return &FileConfigStore{path: path}
}

// Load reads the store document. Missing files, unreadable files, and
// invalid JSON all read as the empty document.
func (s *FileConfigStore) Load() Document {
	var doc Document
	data, err := os.ReadFile(s.path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}
	}
	return doc
}

// Save atomically replaces the store document, keeping a best-effort .bak of
// the previous contents.
func (s *FileConfigStore) Save(doc Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("create config store directory: %w", err)
	}
	fsutil.BestEffortBackup(s.path, filePerm)
	return fsutil.WriteJSONAtomic(s.path, doc, filePerm)
}
