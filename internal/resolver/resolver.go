// Package resolver decides which storage backend holds the live settings
// document and performs all reads and writes against it. Loads are total:
// every failure falls through to the next storage tier and the caller always
// receives a usable record. Saves never fail hard either; a broken file
// backend demotes the effective mode to the embedded store.
package resolver

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/tokrqui/habitator/internal/settings"
	"github.com/tokrqui/habitator/internal/vault"
)

// DataFileName is the fixed filename of the settings document in file-backed
// modes.
const DataFileName = "habit-tracker.json"

// FixedVaultPath is the hardcoded vault-relative location used by the
// fixed-vault-path mode and, as a legacy fallback target, by earlier
// embedded-mode versions.
const FixedVaultPath = DataFileName

// ResolvePath maps a storage config to the vault-relative file path used in
// file-backed modes. It is a pure function of (mode, subdir).
func ResolvePath(cfg settings.StorageConfig) string {
	if cfg.Mode == settings.ModeCustomVaultDir {
		return settings.SanitizeSubdir(cfg.CustomSubdir) + "/" + DataFileName
	}
	return FixedVaultPath
}

// Resolver owns the storage config and mediates between the vault filesystem
// and the embedded config store.
type Resolver struct {
	fs    vault.FS
	store vault.ConfigStore
	cfg   settings.StorageConfig
}

// New builds a resolver, reading the current storage config from the
// embedded store.
func New(fs vault.FS, store vault.ConfigStore) *Resolver {
	r := &Resolver{fs: fs, store: store}
	r.cfg = store.Load().Config.Normalized()
	return r
}

// Config returns the effective storage config, reflecting any demotion that
// has happened since startup.
func (r *Resolver) Config() settings.StorageConfig {
	return r.cfg
}

// Load resolves the active backend, walks the fallback chain until some
// record is found, and returns it normalized. The result is persisted back
// through Save so later loads are consistent with the resolved mode; this is
// a self-healing migration write, not just a cache. Load never fails, but it
// reports when that write had to demote the storage mode.
func (r *Resolver) Load() (s *settings.Settings, demoted bool) {
	doc := r.store.Load()
	r.cfg = doc.Config.Normalized()

	s = settings.Normalize(r.loadRecord(doc))
	demoted = r.Save(s)
	return s, demoted
}

// loadRecord walks the storage tiers: configured backend, legacy fixed path,
// embedded payload, empty. Read and parse errors mean "no data here".
func (r *Resolver) loadRecord(doc vault.Document) settings.Record {
	if r.cfg.Mode == settings.ModeEmbedded {
		rec, _ := decodeRecord(doc.Data)
		return rec
	}

	configured := ResolvePath(r.cfg)
	if data, err := r.fs.Read(configured); err == nil {
		if rec, ok := decodeRecord(data); ok {
			return rec
		}
	}

	// Migration fallback: data written by an older version at the fixed
	// location.
	if configured != FixedVaultPath {
		if data, err := r.fs.Read(FixedVaultPath); err == nil {
			if rec, ok := decodeRecord(data); ok {
				return rec
			}
		}
	}

	// Last tier with any chance of data: a payload left in the config store
	// by a previous embedded-mode version.
	rec, _ := decodeRecord(doc.Data)
	return rec
}

// Save persists the settings to the configured backend. The storage config
// itself always goes to the embedded store. A failed file write demotes the
// effective mode to embedded for this and all future operations; the return
// value reports that demotion so the UI can reflect the new mode. Save never
// propagates a hard failure.
func (r *Resolver) Save(s *settings.Settings) (demoted bool) {
	if r.cfg.Mode == settings.ModeEmbedded {
		r.persistEmbedded(s)
		return false
	}

	// Config first, then the data file. Embedded-store errors are swallowed
	// by contract; the store is wrapped to never fail the caller.
	_ = r.store.Save(vault.Document{Config: r.cfg})

	if err := r.writeVaultFile(r.cfg, s); err != nil {
		r.cfg.Mode = settings.ModeEmbedded
		r.persistEmbedded(s)
		return true
	}
	return false
}

// SetStorageConfig switches the storage location. Identical configs are a
// no-op. Otherwise the current settings are best-effort written to the new
// location first, so the switch feels lossless, and the stored config is
// updated regardless of whether that write succeeded. The embedded payload is
// only dropped once the data verifiably lives at the new location; a failed
// carry-over write keeps the settings inline so the load chain's last tier
// still has them.
func (r *Resolver) SetStorageConfig(next settings.StorageConfig, current *settings.Settings) {
	next = next.Normalized()
	if next.Equal(r.cfg) {
		return
	}

	if current == nil {
		// Nothing to carry over; whatever payload the store holds stays
		// readable from the embedded tier.
		data := r.store.Load().Data
		r.cfg = next
		_ = r.store.Save(vault.Document{Config: next, Data: data})
		return
	}

	r.cfg = next
	if next.Mode == settings.ModeEmbedded {
		r.persistEmbedded(current)
		return
	}

	if err := r.writeVaultFile(next, current); err != nil {
		// The new location is not writable. The mode still switches, but
		// the settings stay inline so no load tier comes up empty; the
		// next save against the broken backend demotes.
		r.persistEmbedded(current)
		return
	}
	_ = r.store.Save(vault.Document{Config: next})
}

// persistEmbedded stores the settings payload inline with the config.
func (r *Resolver) persistEmbedded(s *settings.Settings) {
	doc := vault.Document{Config: r.cfg}
	if s != nil {
		if data, err := json.MarshalIndent(s, "", "  "); err == nil {
			doc.Data = data
		}
	}
	_ = r.store.Save(doc)
}

// writeVaultFile serializes the settings as formatted JSON at the resolved
// path, creating intermediate directories one level at a time.
func (r *Resolver) writeVaultFile(cfg settings.StorageConfig, s *settings.Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	target := ResolvePath(cfg)
	dir := path.Dir(target)
	if dir != "." {
		// Mkdir is non-recursive per call.
		var built string
		for _, seg := range strings.Split(dir, "/") {
			built = path.Join(built, seg)
			if err := r.fs.Mkdir(built); err != nil {
				return err
			}
		}
	}
	return r.fs.Write(target, data)
}

func decodeRecord(data []byte) (settings.Record, bool) {
	var rec settings.Record
	if len(data) == 0 {
		return rec, true
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return settings.Record{}, false
	}
	return rec, true
}
