package sim

import (
	"math/rand"
)

// WorkloadGenerator draws per-process parameters and arrival gaps.
type WorkloadGenerator struct {
	cfg *Config
	rng *rand.Rand
}

// NewWorkloadGenerator creates a generator drawing from rng (normally the
// SubsystemWorkload stream).
func NewWorkloadGenerator(cfg *Config, rng *rand.Rand) *WorkloadGenerator {
	return &WorkloadGenerator{cfg: cfg, rng: rng}
}

// CyclesToGo draws an instruction budget from N(mean, stddev). Draws below
// 20% of the mean fall back to the mean.
func (w *WorkloadGenerator) CyclesToGo() int64 {
	avg := w.cfg.AverageProcessCycles
	cycles := int64(w.rng.NormFloat64()*w.cfg.AverageProcessCycleStdDev + avg)
	if float64(cycles) < 0.2*avg {
		cycles = int64(avg)
	}
	return cycles
}

// FrameReservation draws how many frames a new process reserves and preloads:
// uniform in [1, pages_memory_to_start], capped by number_pages when set.
func (w *WorkloadGenerator) FrameReservation() int {
	pages := 1 + w.rng.Intn(w.cfg.PagesMemoryToStart)
	if w.cfg.NumberPages > 0 && pages > w.cfg.NumberPages {
		pages = w.cfg.NumberPages
	}
	return pages
}

// ArrivalInterval draws the cycles until the next process arrives.
func (w *WorkloadGenerator) ArrivalInterval() int64 {
	return int64(w.rng.Intn(w.cfg.AverageTimeBetweenProcessStarts))
}
