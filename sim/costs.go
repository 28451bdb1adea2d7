package sim

import (
	"math/rand"
)

const (
	// TLBHitCycles is the cost of a translation served from the TLB.
	TLBHitCycles int64 = 1
	// MinDiskCycles floors every disk transfer.
	MinDiskCycles int64 = 500
	// MinPageTableWalkCycles floors every page-table walk.
	MinPageTableWalkCycles int64 = 5
	// CodeLoadProbability is the chance a page created by swap-for-new is
	// code that must be read from disk rather than fresh data.
	CodeLoadProbability = 0.5
)

// MemoryCosts supplies the latencies the translator charges.
type MemoryCosts interface {
	// DiskCycles is the wait for one page transfer to or from disk.
	DiskCycles() int64
	// PageTableWalkCycles is the cost of resolving a TLB miss.
	PageTableWalkCycles() int64
	// TLBHit rolls whether a resident translation hits the TLB.
	TLBHit() bool
}

// CPUCosts supplies the CPU work a process charges per step.
type CPUCosts interface {
	// ProcessingCycles is the CPU work of one executed step.
	ProcessingCycles() int64
	// DiskRequestCycles is the CPU time spent issuing a disk request.
	DiskRequestCycles() int64
}

// StochasticCosts draws latencies from the configured distributions.
// It implements both MemoryCosts and CPUCosts; callers give each role its
// own RNG subsystem.
type StochasticCosts struct {
	cfg *Config
	rng *rand.Rand
}

// NewStochasticCosts creates a cost model drawing from rng.
func NewStochasticCosts(cfg *Config, rng *rand.Rand) *StochasticCosts {
	return &StochasticCosts{cfg: cfg, rng: rng}
}

func (c *StochasticCosts) DiskCycles() int64 {
	cycles := int64(float64(c.cfg.WaitCyclesPerDiskRequest) +
		c.rng.NormFloat64()*float64(c.cfg.WaitCyclesPerDiskRequestSpread))
	return max(cycles, MinDiskCycles)
}

func (c *StochasticCosts) PageTableWalkCycles() int64 {
	cycles := int64(c.cfg.WaitCyclesPerPageTableLookup +
		c.rng.NormFloat64()*c.cfg.WaitCyclesPerPageTableSpread)
	return max(cycles, MinPageTableWalkCycles)
}

func (c *StochasticCosts) TLBHit() bool {
	return c.rng.Float64() < c.cfg.TLBHitRate
}

func (c *StochasticCosts) ProcessingCycles() int64 {
	return 2 + int64(c.rng.Intn(c.cfg.CPUCyclesProcessing))
}

func (c *StochasticCosts) DiskRequestCycles() int64 {
	return int64(c.cfg.CPUCyclesPerDiskRequest)
}
