package settings

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// NewID returns a unique id for a new habit: a random UUID v4 when the
// system's entropy source cooperates, otherwise a v4-shaped pseudo-random
// string. The fallback is not cryptographically strong; ids only need to be
// unique within one vault's habit list.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return pseudoID()
}

func pseudoID() string {
	var b [16]byte
	for i := range b {
		b[i] = byte(rand.Intn(256))
	}
	// Fixed version (4) and variant (10xx) bits.
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
