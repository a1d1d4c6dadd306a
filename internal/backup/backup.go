// Package backup provides backup and restore functionality for habitator.
// A backup is a timestamped directory holding the embedded store document,
// the resolved vault file when one exists, and a manifest describing both.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tokrqui/habitator/internal/fsutil"
	"github.com/tokrqui/habitator/internal/settings"
)

// Version constants for the backup format.
const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	// File names inside a backup directory.
	storeFile = "data.json"
	vaultFile = "vault.json"
)

// Manager handles backup and restore operations.
type Manager struct {
	dataDir    string // path to data directory (e.g., ~/.habitator)
	vaultRoot  string // absolute vault root directory
	backupDir  string // path to backups directory (e.g., ~/.habitator/backups)
	appVersion string // application version for manifest
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"`
	VaultPath  string         `json:"vault_path,omitempty"`
	Stats      map[string]int `json:"stats"`
}

// Info contains summary information about a backup.
type Info struct {
	Name      string         // directory name (2026-08-23_143022_017)
	Path      string         // full path to backup directory
	CreatedAt time.Time      // when the backup was created
	Stats     map[string]int // statistics (habits, completed_days)
}

// NewManager creates a new backup manager.
func NewManager(dataDir, vaultRoot, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		vaultRoot:  vaultRoot,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
	}
}

// Create creates a new backup. vaultRel is the vault-relative path of the
// current settings file; empty means the embedded mode holds the data.
// Returns the backup name (timestamp format) on success.
func (m *Manager) Create(vaultRel string) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	// Backup name from current timestamp, with milliseconds for uniqueness.
	now := time.Now()
	name := fmt.Sprintf("%s_%03d", now.Format("2006-01-02_150405"), now.Nanosecond()/1e6)
	backupPath := filepath.Join(m.backupDir, name)

	if err := os.MkdirAll(backupPath, 0700); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}

	var copied []string
	stats := make(map[string]int)

	storePath := filepath.Join(m.dataDir, storeFile)
	if fileExists(storePath) {
		if err := copyFileAtomic(storePath, filepath.Join(backupPath, storeFile)); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("copy store document: %w", err)
		}
		copied = append(copied, storeFile)
	}

	if vaultRel != "" {
		src := filepath.Join(m.vaultRoot, filepath.FromSlash(vaultRel))
		if fileExists(src) {
			if err := copyFileAtomic(src, filepath.Join(backupPath, vaultFile)); err != nil {
				_ = os.RemoveAll(backupPath)
				return "", fmt.Errorf("copy vault file: %w", err)
			}
			copied = append(copied, vaultFile)
			countStats(src, false, stats)
		}
	}
	if len(stats) == 0 && fileExists(storePath) {
		countStats(storePath, true, stats)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Files:      copied,
		VaultPath:  vaultRel,
		Stats:      stats,
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("write manifest: %w", err)
	}

	return name, nil
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]Info, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		backupPath := filepath.Join(m.backupDir, entry.Name())

		var manifest Manifest
		if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
			// Fall back to the timestamp encoded in the directory name.
			createdAt, parseErr := parseBackupName(entry.Name())
			if parseErr != nil {
				continue // skip foreign directories
			}
			manifest.CreatedAt = createdAt
			manifest.Stats = make(map[string]int)
		}

		backups = append(backups, Info{
			Name:      entry.Name(),
			Path:      backupPath,
			CreatedAt: manifest.CreatedAt,
			Stats:     manifest.Stats,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Restore restores data from a specific backup, creating a safety backup
// of the current state first.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		return fmt.Errorf("backup %s has no readable manifest: %w", name, err)
	}

	safetyName, err := m.Create(manifest.VaultPath)
	if err != nil {
		return fmt.Errorf("create safety backup: %w", err)
	}

	for _, f := range manifest.Files {
		src := filepath.Join(backupPath, f)
		if !fileExists(src) {
			continue
		}

		var dst string
		switch f {
		case storeFile:
			dst = filepath.Join(m.dataDir, storeFile)
		case vaultFile:
			if manifest.VaultPath == "" {
				continue
			}
			dst = filepath.Join(m.vaultRoot, filepath.FromSlash(manifest.VaultPath))
			if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
				return fmt.Errorf("restore %s (safety backup: %s): %w", f, safetyName, err)
			}
		default:
			continue
		}

		if err := validateJSON(src); err != nil {
			return fmt.Errorf("backup file %s is invalid (safety backup: %s): %w", f, safetyName, err)
		}
		if err := copyFileAtomic(src, dst); err != nil {
			return fmt.Errorf("restore %s (safety backup: %s): %w", f, safetyName, err)
		}
	}

	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Get returns information about a specific backup.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = make(map[string]int)
	}

	return &Info{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Helper functions

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(dst, data, 0600)
}

// writeJSON writes a value as JSON to a file.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// readJSON reads JSON from a file into a value.
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// validateJSON checks that a file contains valid JSON.
func validateJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var v interface{}
	return json.Unmarshal(data, &v)
}

// countStats counts habits and completed days in a settings file. embedded
// selects the store document shape, where the record sits under "data".
func countStats(path string, embedded bool, stats map[string]int) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	if embedded {
		var doc struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &doc); err != nil || len(doc.Data) == 0 {
			return
		}
		data = doc.Data
	}

	var rec settings.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return
	}

	stats["habits"] = len(rec.Habits)
	days := 0
	for _, h := range rec.Habits {
		days += len(h.CompletedDays)
	}
	stats["completed_days"] = days
}

// parseBackupName parses a backup directory name into a timestamp.
// Supports names with and without the millisecond suffix.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		// Format: 2006-01-02_150405_XXX
		baseTime, err := time.Parse("2006-01-02_150405", name[:17])
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
	}

	return time.Parse("2006-01-02_150405", name)
}
