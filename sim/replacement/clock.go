package replacement

import (
	"github.com/pagesim/pagesim/sim"
)

// Clock is second chance over resident pages. The hand persists between
// calls; a referenced page under the hand has its bit cleared and is skipped
// once. Pages holding a free frame are handed back before anything resident.
type Clock struct {
	sim.EvictionCounters
	hand int
}

// NewClock creates a clock policy with the hand at page 0.
func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Name() string { return "clock" }

// Hand is the page the next sweep starts from.
func (c *Clock) Hand() int { return c.hand }

func (c *Clock) SelectVictim(table []*sim.PageTableEntry, frames []bool) (int, error) {
	for page, entry := range table {
		if !entry.Valid && sim.IsEvictionCandidate(entry, frames) {
			c.RecordVictim(entry)
			return page, nil
		}
	}
	if len(table) == 0 {
		return 0, sim.ErrNoEvictionCandidate
	}
	if c.hand >= len(table) {
		c.hand = 0
	}
	// Two sweeps: the first may only clear referenced bits.
	for i := 0; i < 2*len(table); i++ {
		page := c.hand
		c.hand = (c.hand + 1) % len(table)
		entry := table[page]
		if !entry.Valid {
			continue
		}
		if entry.Referenced {
			entry.Referenced = false
			continue
		}
		c.RecordVictim(entry)
		return page, nil
	}
	return 0, sim.ErrNoEvictionCandidate
}
