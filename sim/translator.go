package sim

import (
	"fmt"
	"math/rand"

	"github.com/pagesim/pagesim/sim/trace"
)

// AddressTranslator performs virtual-to-physical translation for one process.
//
// It owns a growable page table (index == virtual page number) and a frame
// table whose length is fixed at construction: the process can never hold
// more resident pages than it reserved. Frames are handed out by direct
// mapping (page i → frame i) while reserved frames remain, and by the bound
// ReplacementPolicy afterwards.
//
// Not thread-safe: only the owning process may call into a translator.
type AddressTranslator struct {
	pageTable []*PageTableEntry
	frames    []bool
	pageSize  int
	policy    ReplacementPolicy
	costs     MemoryCosts
	rng       *rand.Rand

	pid   int
	clock int64
	trace *trace.SimulationTrace
}

// NewAddressTranslator creates a translator with frameCount reserved frames
// and an empty page table.
func NewAddressTranslator(frameCount, pageSize int, policy ReplacementPolicy, costs MemoryCosts, rng *rand.Rand) (*AddressTranslator, error) {
	if frameCount < 1 {
		return nil, fmt.Errorf("%w: %d frames", ErrNoFrameCapacity, frameCount)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be > 0, got %d", pageSize)
	}
	return &AddressTranslator{
		pageTable: make([]*PageTableEntry, 0, frameCount),
		frames:    make([]bool, frameCount),
		pageSize:  pageSize,
		policy:    policy,
		costs:     costs,
		rng:       rng,
	}, nil
}

// SetTrace attaches an eviction trace. A nil trace disables recording.
func (at *AddressTranslator) SetTrace(tr *trace.SimulationTrace, pid int) {
	at.trace = tr
	at.pid = pid
}

// SetClock synchronizes the clock stamped on trace records.
func (at *AddressTranslator) SetClock(clock int64) {
	at.clock = clock
}

// AccessPage touches a virtual page and returns the cycles the access waited.
//
// A page one past the end of the table is created: it takes its own frame
// (frame index == page index) while that reserved frame is still free,
// otherwise it reuses a victim's frame via SwapForNew. An existing page that
// is not resident is brought in with SwapForExisting. A resident page costs
// TLBHitCycles on a TLB hit and a page-table walk on a miss. Every access to
// an existing page sets its referenced bit and may dirty it.
func (at *AddressTranslator) AccessPage(page int) (int64, error) {
	if page < 0 {
		return 0, fmt.Errorf("pid %d page %d: %w", at.pid, page, ErrPageOutOfRange)
	}
	if page >= len(at.pageTable) {
		return at.mapNewPage(page)
	}

	entry := at.pageTable[page]
	var waitCycles int64
	if !entry.Valid {
		victim, err := at.selectVictim()
		if err != nil {
			return 0, err
		}
		cycles, err := at.SwapForExisting(victim, page)
		if err != nil {
			return 0, err
		}
		waitCycles += cycles
	} else if at.costs.TLBHit() {
		waitCycles += TLBHitCycles
	} else {
		waitCycles += at.costs.PageTableWalkCycles()
	}

	entry.Access(at.rng)
	return waitCycles, nil
}

// mapNewPage appends the entry for page == len(pageTable).
func (at *AddressTranslator) mapNewPage(page int) (int64, error) {
	if page > len(at.pageTable) {
		return 0, fmt.Errorf("pid %d page %d with table of %d: %w",
			at.pid, page, len(at.pageTable), ErrNonContiguousPage)
	}

	// Still filling reserved memory: page number == frame number.
	if page < len(at.frames) && !at.frames[page] {
		entry := NewPageTableEntry(page)
		entry.bind(page, false)
		at.frames[page] = true
		at.pageTable = append(at.pageTable, entry)
		return at.costs.DiskCycles(), nil
	}

	victim, err := at.selectVictim()
	if err != nil {
		return 0, err
	}
	at.pageTable = append(at.pageTable, NewPageTableEntry(at.pageTable[victim].FrameNumber))
	return at.SwapForNew(victim, page)
}

// selectVictim asks the policy for a victim and checks the answer.
func (at *AddressTranslator) selectVictim() (int, error) {
	if at.policy == nil {
		return 0, fmt.Errorf("pid %d: no replacement policy bound: %w", at.pid, ErrNoEvictionCandidate)
	}
	victim, err := at.policy.SelectVictim(at.pageTable, at.frames)
	if err != nil {
		return 0, fmt.Errorf("pid %d policy %s: %w", at.pid, at.policy.Name(), err)
	}
	if victim < 0 || victim >= len(at.pageTable) {
		return 0, fmt.Errorf("pid %d policy %s chose page %d of %d: %w",
			at.pid, at.policy.Name(), victim, len(at.pageTable), ErrPageOutOfRange)
	}
	return victim, nil
}

// FreePage invalidates a page. A resident page also releases its frame; a
// page that is already out keeps the frame bookkeeping untouched, since its
// recorded frame may now belong to another page. No cycles are charged.
func (at *AddressTranslator) FreePage(page int) error {
	entry, err := at.entry(page)
	if err != nil {
		return err
	}
	if entry.Valid {
		at.frames[entry.FrameNumber] = false
	}
	entry.Invalidate()
	return nil
}

// SwapForExisting evicts victimPage and loads targetPage into the freed frame.
// Cost: one disk write-back if the victim is dirty, plus one disk read.
// targetPage ends resident, referenced and clean.
func (at *AddressTranslator) SwapForExisting(victimPage, targetPage int) (int64, error) {
	victim, target, err := at.swapPair(victimPage, targetPage)
	if err != nil {
		return 0, err
	}
	frame := victim.FrameNumber
	class := ClassifyVictim(victim)

	var waitCycles int64
	if victim.Valid && victim.Modified {
		waitCycles += at.costs.DiskCycles()
	}
	victim.Invalidate()

	waitCycles += at.costs.DiskCycles()
	target.bind(frame, false)
	at.frames[frame] = true

	at.recordEviction(trace.KindExisting, victimPage, targetPage, frame, class, waitCycles)
	return waitCycles, nil
}

// SwapForNew evicts victimPage so that newPage can take its frame.
// Cost: one disk write-back if the victim is dirty, plus, with
// CodeLoadProbability, one disk read for code. Otherwise the page is fresh
// data and starts dirty. newPage ends resident and referenced.
func (at *AddressTranslator) SwapForNew(victimPage, newPage int) (int64, error) {
	victim, target, err := at.swapPair(victimPage, newPage)
	if err != nil {
		return 0, err
	}
	frame := victim.FrameNumber
	class := ClassifyVictim(victim)

	var waitCycles int64
	if victim.Valid && victim.Modified {
		waitCycles += at.costs.DiskCycles()
	}
	victim.Invalidate()
	at.frames[frame] = false

	modified := true
	if at.rng.Float64() < CodeLoadProbability {
		modified = false
		waitCycles += at.costs.DiskCycles()
	}
	target.bind(frame, modified)
	at.frames[frame] = true

	at.recordEviction(trace.KindNew, victimPage, newPage, frame, class, waitCycles)
	return waitCycles, nil
}

// swapPair resolves and checks the entries of a swap.
func (at *AddressTranslator) swapPair(victimPage, targetPage int) (*PageTableEntry, *PageTableEntry, error) {
	victim, err := at.entry(victimPage)
	if err != nil {
		return nil, nil, err
	}
	target, err := at.entry(targetPage)
	if err != nil {
		return nil, nil, err
	}
	if target.Valid {
		return nil, nil, fmt.Errorf("pid %d page %d: %w", at.pid, targetPage, ErrPageResident)
	}
	if !IsEvictionCandidate(victim, at.frames) {
		return nil, nil, fmt.Errorf("pid %d page %d (frame %d): %w",
			at.pid, victimPage, victim.FrameNumber, ErrInvalidVictim)
	}
	return victim, target, nil
}

func (at *AddressTranslator) entry(page int) (*PageTableEntry, error) {
	if page < 0 || page >= len(at.pageTable) {
		return nil, fmt.Errorf("pid %d page %d of %d: %w", at.pid, page, len(at.pageTable), ErrPageOutOfRange)
	}
	return at.pageTable[page], nil
}

func (at *AddressTranslator) recordEviction(kind string, victimPage, targetPage, frame int, class EvictionClass, cycles int64) {
	at.trace.RecordEviction(trace.EvictionRecord{
		PID:        at.pid,
		Clock:      at.clock,
		Kind:       kind,
		VictimPage: victimPage,
		TargetPage: targetPage,
		Frame:      frame,
		Class:      string(class),
		Cycles:     cycles,
	})
}

// VirtualSize is the size in bytes of the address space mapped so far.
func (at *AddressTranslator) VirtualSize() float64 {
	return float64(at.pageSize) * float64(len(at.pageTable))
}

// PageSize is the page size in bytes.
func (at *AddressTranslator) PageSize() float64 {
	return float64(at.pageSize)
}

// TableLen is the number of page table entries.
func (at *AddressTranslator) TableLen() int { return len(at.pageTable) }

// FrameCount is the fixed length of the frame table.
func (at *AddressTranslator) FrameCount() int { return len(at.frames) }

// Entry returns a copy of a page table entry.
func (at *AddressTranslator) Entry(page int) (PageTableEntry, bool) {
	if page < 0 || page >= len(at.pageTable) {
		return PageTableEntry{}, false
	}
	return *at.pageTable[page], true
}

// ResidentPages counts valid entries.
func (at *AddressTranslator) ResidentPages() int {
	n := 0
	for _, e := range at.pageTable {
		if e.Valid {
			n++
		}
	}
	return n
}

// UsedFrames counts occupied frames.
func (at *AddressTranslator) UsedFrames() int {
	n := 0
	for _, used := range at.frames {
		if used {
			n++
		}
	}
	return n
}

// CheckOccupancy verifies that valid entries and occupied frames correspond
// one-to-one.
func (at *AddressTranslator) CheckOccupancy() error {
	owner := make(map[int]int, len(at.frames))
	for page, e := range at.pageTable {
		if !e.Valid {
			continue
		}
		if e.FrameNumber < 0 || e.FrameNumber >= len(at.frames) {
			return fmt.Errorf("pid %d page %d maps frame %d outside %d frames", at.pid, page, e.FrameNumber, len(at.frames))
		}
		if !at.frames[e.FrameNumber] {
			return fmt.Errorf("pid %d page %d maps free frame %d", at.pid, page, e.FrameNumber)
		}
		if other, ok := owner[e.FrameNumber]; ok {
			return fmt.Errorf("pid %d frame %d mapped by pages %d and %d", at.pid, e.FrameNumber, other, page)
		}
		owner[e.FrameNumber] = page
	}
	if used := at.UsedFrames(); used != len(owner) {
		return fmt.Errorf("pid %d has %d occupied frames but %d resident pages", at.pid, used, len(owner))
	}
	return nil
}

// PolicyName returns the bound replacement policy's name.
func (at *AddressTranslator) PolicyName() string {
	if at.policy == nil {
		return ""
	}
	return at.policy.Name()
}

// Evictions returns the bound policy's eviction-class counters.
func (at *AddressTranslator) Evictions() EvictionCounters {
	if at.policy == nil {
		return EvictionCounters{}
	}
	return at.policy.Counters()
}

// FreePagesReturned is the number of victims that were not resident.
func (at *AddressTranslator) FreePagesReturned() int64 { return at.Evictions().FreePagesReturned }

// CleanPagesReturned is the number of unmodified resident victims.
func (at *AddressTranslator) CleanPagesReturned() int64 { return at.Evictions().CleanPagesReturned }

// DirtyPagesReturned is the number of modified resident victims.
func (at *AddressTranslator) DirtyPagesReturned() int64 { return at.Evictions().DirtyPagesReturned }
