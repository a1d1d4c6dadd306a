package settings

import (
	"regexp"
	"testing"
)

var v4Shape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNewID_V4Shape(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		if !v4Shape.MatchString(id) {
			t.Fatalf("NewID() = %q, not v4-shaped", id)
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("NewID() returned duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestPseudoID_V4Shape(t *testing.T) {
	// The fallback must keep the fixed version and variant bits.
	for i := 0; i < 100; i++ {
		if id := pseudoID(); !v4Shape.MatchString(id) {
			t.Fatalf("pseudoID() = %q, not v4-shaped", id)
		}
	}
}
