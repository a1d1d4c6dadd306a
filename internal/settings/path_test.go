package settings

import "testing"

func TestSanitizeSubdir(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "habits", "habits"},
		{"nested", "notes/habits", "notes/habits"},
		{"backslashes normalized", `a\b\c`, "a/b/c"},
		{"leading slash stripped", "/habits", "habits"},
		{"trailing slash stripped", "habits/", "habits"},
		{"parent traversal rejected", "../../etc", DefaultSubdir},
		{"embedded traversal rejected", "a/../b", DefaultSubdir},
		{"dot segment rejected", "./habits", DefaultSubdir},
		{"empty segment rejected", "a//b", DefaultSubdir},
		{"empty input defaulted", "", DefaultSubdir},
		{"whitespace defaulted", "   ", DefaultSubdir},
		{"bare slash defaulted", "/", DefaultSubdir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeSubdir(tt.input); got != tt.want {
				t.Errorf("SanitizeSubdir(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSubdir_Idempotent(t *testing.T) {
	for _, input := range []string{"habits", `a\b`, "../../etc", "", "x/y/z/"} {
		once := SanitizeSubdir(input)
		if twice := SanitizeSubdir(once); twice != once {
			t.Errorf("SanitizeSubdir(%q): %q -> %q, want fixed point", input, once, twice)
		}
	}
}
