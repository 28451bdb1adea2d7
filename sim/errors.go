package sim

import "errors"

// Invariant violations. Page faults and TLB misses are modelled outcomes and
// never surface as errors; these do, and they abort the run.
var (
	// ErrNoEvictionCandidate is returned when a replacement policy finds no
	// resident page and no free frame to hand back.
	ErrNoEvictionCandidate = errors.New("no eviction candidate")
	// ErrNoFrameCapacity is returned when a translator has no frames at all.
	ErrNoFrameCapacity = errors.New("translator has no frame capacity")
	// ErrPageOutOfRange is returned for a page number with no page table entry.
	ErrPageOutOfRange = errors.New("page number out of range")
	// ErrNonContiguousPage is returned when a new page would leave a hole in
	// the page table.
	ErrNonContiguousPage = errors.New("page number skips unmapped pages")
	// ErrPageResident is returned when swapping in a page that is already resident.
	ErrPageResident = errors.New("page is already resident")
	// ErrInvalidVictim is returned when a policy picks a page that is neither
	// resident nor holding a free frame.
	ErrInvalidVictim = errors.New("victim page is not evictable")
	// ErrProcessDone is returned when a retired process is stepped again.
	ErrProcessDone = errors.New("process already done")
)
