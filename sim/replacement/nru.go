package replacement

import (
	"math/rand"

	"github.com/pagesim/pagesim/sim"
)

// NRU is Not-Recently-Used: candidates are ranked into classes
// (free, !R!M, !R M, R!M, R M) and the victim is drawn uniformly from the
// lowest non-empty class.
type NRU struct {
	sim.EvictionCounters
	rng *rand.Rand
}

// NewNRU creates an NRU policy drawing ties from rng.
func NewNRU(rng *rand.Rand) *NRU {
	return &NRU{rng: rng}
}

func (n *NRU) Name() string { return "nru" }

func (n *NRU) SelectVictim(table []*sim.PageTableEntry, frames []bool) (int, error) {
	var classes [5][]int
	for _, page := range candidates(table, frames) {
		rank := nruClass(table[page])
		classes[rank] = append(classes[rank], page)
	}
	for _, pages := range classes {
		if len(pages) == 0 {
			continue
		}
		victim := pages[n.rng.Intn(len(pages))]
		n.RecordVictim(table[victim])
		return victim, nil
	}
	return 0, sim.ErrNoEvictionCandidate
}

func nruClass(e *sim.PageTableEntry) int {
	if !e.Valid {
		return 0
	}
	rank := 1
	if e.Referenced {
		rank += 2
	}
	if e.Modified {
		rank++
	}
	return rank
}
