package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateLoading ProcessState = "loading"
	StateRunning ProcessState = "running"
	StateWaiting ProcessState = "waiting"
	StateDone    ProcessState = "done"
)

const (
	// FaultThresholdCycles is the access cost at which a process stops its
	// burst and waits for the disk.
	FaultThresholdCycles int64 = 500
	// FreePageCycles is the flat cost of freeing the page left behind.
	FreePageCycles int64 = 5
	// FreeJumpDistance is the MP move (fraction of the address space) beyond
	// which the old page becomes a candidate for freeing.
	FreeJumpDistance = 0.1
)

// ProcessParams are the per-process values drawn at creation.
type ProcessParams struct {
	PID            int
	CyclesToGo     int64 // instruction budget; done once exceeded
	PagesToPreload int   // pages touched during loading
	Quantum        int64 // burst length per tick
	CreatedAt      int64 // global cycle of creation
}

// Process models one program: it loads its initial pages, then runs bursts
// of page accesses, yielding to wait out page faults, until its instruction
// budget is spent.
//
// State machine: loading → running ⇄ waiting → done. Done is terminal.
type Process struct {
	PID               int
	CyclesToGo        int64
	TotalInstructions int64 // cycles of work done across all bursts
	TotalWaitCycles   int64 // cycles charged by bursts that hit the fault threshold
	WaitRemaining     int64 // cycles left before the pending disk wait clears
	LastCycleSeen     int64

	ProgramCounter float64 // fraction of the virtual address space
	MemoryPointer  float64 // fraction of the virtual address space

	Loaded         bool
	PagesLoaded    int
	PagesToPreload int
	JustResumed    bool // skip the pointer advance on the first iteration of a burst
	State          ProcessState

	quantum  int64
	memory   *AddressTranslator
	locality *Locality
	cpu      CPUCosts
}

// NewProcess creates a process in the loading state. It owns memory for its
// whole lifetime.
func NewProcess(params ProcessParams, memory *AddressTranslator, locality *Locality, cpu CPUCosts) *Process {
	return &Process{
		PID:            params.PID,
		CyclesToGo:     params.CyclesToGo,
		PagesToPreload: params.PagesToPreload,
		LastCycleSeen:  params.CreatedAt,
		State:          StateLoading,
		quantum:        params.Quantum,
		memory:         memory,
		locality:       locality,
		cpu:            cpu,
	}
}

// Step advances the process by one scheduler tick and returns the cycles it
// consumed.
//
// A waiting process burns the cycles elapsed since it was last seen and
// reports a single cycle. Otherwise it runs a burst until the burst reaches
// the quantum or a fault pushes WaitRemaining to FaultThresholdCycles.
// Stepping a done process is an error.
func (p *Process) Step(currentCycle int64) (int64, error) {
	if p.State == StateDone {
		return 0, fmt.Errorf("pid %d: %w", p.PID, ErrProcessDone)
	}
	elapsed := currentCycle - p.LastCycleSeen
	p.LastCycleSeen = currentCycle
	p.memory.SetClock(currentCycle)

	if p.WaitRemaining > elapsed {
		p.WaitRemaining -= elapsed
		p.State = StateWaiting
		return 1, nil
	}
	// The first iteration of every burst only pays CPU processing, whether or
	// not a wait just cleared.
	p.WaitRemaining = 0
	p.JustResumed = true

	var burst int64
	for burst < p.quantum && p.WaitRemaining < FaultThresholdCycles {
		var cycles int64
		var err error
		if !p.Loaded {
			cycles, err = p.loadStep()
		} else {
			cycles, err = p.advance()
		}
		if err != nil {
			return burst, err
		}
		burst += cycles
	}
	p.TotalInstructions += burst

	switch {
	case p.TotalInstructions > p.CyclesToGo:
		p.State = StateDone
	case p.WaitRemaining > 0:
		p.State = StateWaiting
	case !p.Loaded:
		p.State = StateLoading
	default:
		p.State = StateRunning
	}
	return burst, nil
}

// IsDone reports whether the instruction budget is spent.
func (p *Process) IsDone() bool {
	return p.State == StateDone
}

// Memory returns the process's translator.
func (p *Process) Memory() *AddressTranslator {
	return p.memory
}

// loadStep touches the next preload page, or finishes loading once all are in.
func (p *Process) loadStep() (int64, error) {
	if p.PagesLoaded < p.PagesToPreload {
		cycles, err := p.memory.AccessPage(p.PagesLoaded)
		if err != nil {
			return 0, err
		}
		logrus.Debugf("pid %d: loaded page %d (%d cycles)", p.PID, p.PagesLoaded, cycles)
		p.WaitRemaining += cycles
		p.PagesLoaded++
	} else {
		p.ProgramCounter = p.locality.NextPC(0)
		p.MemoryPointer = p.locality.NextMP(0)
		p.Loaded = true
		logrus.Debugf("pid %d: finished loading %d pages", p.PID, p.PagesLoaded)
	}
	return p.cpu.DiskRequestCycles(), nil
}

// advance executes one step: move PC and MP, maybe free the page the MP left,
// then access both pages.
func (p *Process) advance() (int64, error) {
	var loadCycles, freeCycles int64
	if !p.JustResumed {
		oldMP := p.MemoryPointer
		p.ProgramCounter = p.locality.NextPC(p.ProgramCounter)
		p.MemoryPointer = p.locality.NextMP(p.MemoryPointer)

		if p.locality.FreeLeftPage(oldMP, p.MemoryPointer) {
			// A pointer past the end maps one page beyond the table; nothing to free.
			if page := p.relativeToPage(oldMP); page < p.memory.TableLen() {
				if err := p.memory.FreePage(page); err != nil {
					return 0, err
				}
				freeCycles = FreePageCycles
			}
		}

		pcCycles, err := p.memory.AccessPage(p.relativeToPage(p.ProgramCounter))
		if err != nil {
			return 0, err
		}
		mpCycles, err := p.memory.AccessPage(p.relativeToPage(p.MemoryPointer))
		if err != nil {
			return 0, err
		}
		loadCycles = pcCycles + mpCycles

		if loadCycles >= FaultThresholdCycles {
			logrus.Debugf("pid %d: page fault, waiting %d cycles", p.PID, loadCycles)
			p.WaitRemaining += loadCycles
			p.TotalWaitCycles += loadCycles
			return p.cpu.DiskRequestCycles(), nil
		}
	}

	p.JustResumed = false
	return loadCycles + freeCycles + p.cpu.ProcessingCycles(), nil
}

// relativeToPage converts a fractional position to a page number. Positions
// at or past the end map to the page one beyond the current table.
func (p *Process) relativeToPage(x float64) int {
	if x < 1.0 {
		return int(p.memory.VirtualSize() * x / p.memory.PageSize())
	}
	return int(p.memory.VirtualSize() / p.memory.PageSize())
}

// ProcessSummary is the read-only view of a process handed to observers and
// reports.
type ProcessSummary struct {
	PID               int              `json:"pid"`
	State             ProcessState     `json:"state"`
	CyclesToGo        int64            `json:"cycles_to_go"`
	TotalInstructions int64            `json:"total_instructions"`
	TotalWaitCycles   int64            `json:"total_wait_cycles"`
	WaitRemaining     int64            `json:"wait_remaining"`
	Frames            int              `json:"frames"`
	PagesMapped       int              `json:"pages_mapped"`
	ResidentPages     int              `json:"resident_pages"`
	Evictions         EvictionCounters `json:"evictions"`
}

// Summary returns a copy of the process counters.
func (p *Process) Summary() ProcessSummary {
	return ProcessSummary{
		PID:               p.PID,
		State:             p.State,
		CyclesToGo:        p.CyclesToGo,
		TotalInstructions: p.TotalInstructions,
		TotalWaitCycles:   p.TotalWaitCycles,
		WaitRemaining:     p.WaitRemaining,
		Frames:            p.memory.FrameCount(),
		PagesMapped:       p.memory.TableLen(),
		ResidentPages:     p.memory.ResidentPages(),
		Evictions:         p.memory.Evictions(),
	}
}
