// Package replacement provides the page replacement policies bound to each
// process's address translator.
package replacement

import (
	"fmt"
	"math/rand"

	"github.com/pagesim/pagesim/sim"
)

// New creates a policy by resolved name. Panics on unknown names; callers
// validate user input with sim.IsValidReplacementPolicy first.
func New(name string, rng *rand.Rand) sim.ReplacementPolicy {
	switch name {
	case "", "random":
		return NewRandom(rng)
	case "nru":
		return NewNRU(rng)
	case "clock":
		return NewClock()
	default:
		panic(fmt.Sprintf("unknown replacement policy %q", name))
	}
}

// candidates returns the page numbers a policy may hand back.
func candidates(table []*sim.PageTableEntry, frames []bool) []int {
	out := make([]int, 0, len(frames))
	for page, entry := range table {
		if sim.IsEvictionCandidate(entry, frames) {
			out = append(out, page)
		}
	}
	return out
}
