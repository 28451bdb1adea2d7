package sim

import "math/rand"

// DirtyProbability is the chance that an access writes to the page.
const DirtyProbability = 0.2

// PageTableEntry maps one virtual page to a frame of its owning translator.
// The entry's index in the page table is its virtual page number.
type PageTableEntry struct {
	FrameNumber int  // frame in the owning translator's frame table
	Valid       bool // page is resident in FrameNumber
	Referenced  bool // touched since the bit was last cleared
	Modified    bool // dirty; eviction requires a write-back
}

// NewPageTableEntry creates a non-resident entry pointing at frame.
func NewPageTableEntry(frame int) *PageTableEntry {
	return &PageTableEntry{FrameNumber: frame}
}

// Access marks the entry referenced and, with DirtyProbability, modified.
func (e *PageTableEntry) Access(rng *rand.Rand) {
	e.Referenced = true
	if rng.Float64() < DirtyProbability {
		e.Modified = true
	}
}

// Invalidate clears the valid, referenced and modified bits. FrameNumber is
// kept so a policy can still find the frame the page last occupied.
func (e *PageTableEntry) Invalidate() {
	e.Valid = false
	e.Referenced = false
	e.Modified = false
}

// bind makes the entry resident in frame with the given dirty state.
func (e *PageTableEntry) bind(frame int, modified bool) {
	e.FrameNumber = frame
	e.Valid = true
	e.Referenced = true
	e.Modified = modified
}
