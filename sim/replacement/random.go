package replacement

import (
	"math/rand"

	"github.com/pagesim/pagesim/sim"
)

// Random picks uniformly among eligible pages.
type Random struct {
	sim.EvictionCounters
	rng *rand.Rand
}

// NewRandom creates a random policy drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Name() string { return "random" }

func (r *Random) SelectVictim(table []*sim.PageTableEntry, frames []bool) (int, error) {
	pages := candidates(table, frames)
	if len(pages) == 0 {
		return 0, sim.ErrNoEvictionCandidate
	}
	victim := pages[r.rng.Intn(len(pages))]
	r.RecordVictim(table[victim])
	return victim, nil
}
