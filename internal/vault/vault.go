// Package vault provides the two physical storage backends the resolver
// works against: a vault-relative filesystem and the embedded config store
// document. Filesystem calls are fallible I/O; config store reads are not.
package vault

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tokrqui/habitator/internal/fsutil"
)

const (
	dirPerm  os.FileMode = 0700
	filePerm os.FileMode = 0600
)

// FS is a file-system-like adapter over vault-relative paths. Any call may
// fail and callers must treat every error as transient I/O failure.
type FS interface {
	Exists(rel string) bool
	Read(rel string) ([]byte, error)
	Write(rel string, data []byte) error
	Mkdir(rel string) error
}

// DirFS implements FS rooted at a local directory.
type DirFS struct {
	root string
}

// NewDirFS returns an FS rooted at root. The directory is created lazily by
// the first write.
func NewDirFS(root string) *DirFS {
	return &DirFS{root: root}
}

// Root returns the vault's absolute root directory.
func (v *DirFS) Root() string {
	return v.root
}

// Exists reports whether a vault-relative path exists.
func (v *DirFS) Exists(rel string) bool {
	abs, err := v.abs(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Read returns the contents of a vault-relative file.
func (v *DirFS) Read(rel string) ([]byte, error) {
	abs, err := v.abs(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Write atomically replaces the contents of a vault-relative file. The
// containing directory must already exist.
func (v *DirFS) Write(rel string, data []byte) error {
	abs, err := v.abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(v.root, dirPerm); err != nil {
		return fmt.Errorf("create vault root: %w", err)
	}
	if err := fsutil.WriteFileAtomic(abs, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// Mkdir creates one vault-relative directory level (non-recursive per call,
// existing directories are fine).
func (v *DirFS) Mkdir(rel string) error {
	abs, err := v.abs(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(v.root, dirPerm); err != nil {
		return fmt.Errorf("create vault root: %w", err)
	}
	if err := os.Mkdir(abs, dirPerm); err != nil && !os.IsExist(err) {
		return fmt.Errorf("mkdir %s: %w", rel, err)
	}
	return nil
}

// abs maps a vault-relative path to an absolute one, refusing anything that
// would escape the root.
func (v *DirFS) abs(rel string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(rel, `\`, "/"))
	if clean == "/" {
		return "", fmt.Errorf("empty vault path %q", rel)
	}
	return filepath.Join(v.root, filepath.FromSlash(clean)), nil
}
