package packetgen

import (
	"math/rand"
	"time"
)

// Rand supplies the randomness used to pick which question to regenerate
// when breaking a reference cycle. Injected so resolution is deterministic
// under test.
type Rand interface {
	Intn(n int) int
}

func defaultRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
