package settings

import "strings"

// DefaultSubdir is used when a custom subdirectory is empty or rejected.
const DefaultSubdir = "habit-tracker"

// SanitizeSubdir normalizes a vault-relative directory string: backslashes
// become slashes, leading/trailing slashes are stripped, and any input with
// `.`/`..` segments is rejected and replaced by the default, since the path
// must stay inside the vault.
func SanitizeSubdir(subdir string) string {
	subdir = strings.ReplaceAll(strings.TrimSpace(subdir), `\`, "/")
	subdir = strings.Trim(subdir, "/")
	if subdir == "" {
		return DefaultSubdir
	}
	for _, seg := range strings.Split(subdir, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return DefaultSubdir
		}
	}
	return subdir
}
