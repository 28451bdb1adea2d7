package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStochasticCosts_Floors(t *testing.T) {
	// GIVEN distributions centred well below the floors
	cfg := DefaultConfig()
	cfg.WaitCyclesPerDiskRequest = 10
	cfg.WaitCyclesPerDiskRequestSpread = 100
	cfg.WaitCyclesPerPageTableLookup = 1
	cfg.WaitCyclesPerPageTableSpread = 10
	c := NewStochasticCosts(cfg, rand.New(rand.NewSource(1)))

	// THEN draws never go below the floors
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, c.DiskCycles(), MinDiskCycles)
		assert.GreaterOrEqual(t, c.PageTableWalkCycles(), MinPageTableWalkCycles)
	}
}

func TestStochasticCosts_ProcessingRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPUCyclesProcessing = 4
	c := NewStochasticCosts(cfg, rand.New(rand.NewSource(1)))
	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		v := c.ProcessingCycles()
		assert.GreaterOrEqual(t, v, int64(2))
		assert.LessOrEqual(t, v, int64(5))
		seen[v] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, int64(cfg.CPUCyclesPerDiskRequest), c.DiskRequestCycles())
}

func TestStochasticCosts_TLBHitRateExtremes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TLBHitRate = 1
	always := NewStochasticCosts(cfg, rand.New(rand.NewSource(1)))
	cfg2 := DefaultConfig()
	cfg2.TLBHitRate = 0
	never := NewStochasticCosts(cfg2, rand.New(rand.NewSource(1)))
	for i := 0; i < 100; i++ {
		assert.True(t, always.TLBHit())
		assert.False(t, never.TLBHit())
	}
}

func TestWorkloadGenerator_CyclesToGo_FallsBackToMean(t *testing.T) {
	// GIVEN a huge deviation so many draws land below 20% of the mean
	cfg := DefaultConfig()
	cfg.AverageProcessCycles = 1000
	cfg.AverageProcessCycleStdDev = 5000
	w := NewWorkloadGenerator(cfg, rand.New(rand.NewSource(2)))

	fellBack := false
	for i := 0; i < 1000; i++ {
		v := w.CyclesToGo()
		// THEN no draw is ever below the cut-off
		assert.GreaterOrEqual(t, float64(v), 0.2*cfg.AverageProcessCycles)
		if v == 1000 {
			fellBack = true
		}
	}
	assert.True(t, fellBack)
}

func TestWorkloadGenerator_FrameReservation_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PagesMemoryToStart = 10
	cfg.NumberPages = 4
	w := NewWorkloadGenerator(cfg, rand.New(rand.NewSource(3)))
	for i := 0; i < 500; i++ {
		v := w.FrameReservation()
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 4)
	}

	cfg.NumberPages = 0
	maxSeen := 0
	for i := 0; i < 500; i++ {
		maxSeen = max(maxSeen, w.FrameReservation())
	}
	assert.Equal(t, 10, maxSeen)
}

func TestWorkloadGenerator_ArrivalInterval_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AverageTimeBetweenProcessStarts = 50
	w := NewWorkloadGenerator(cfg, rand.New(rand.NewSource(4)))
	for i := 0; i < 500; i++ {
		v := w.ArrivalInterval()
		assert.GreaterOrEqual(t, v, int64(0))
		assert.Less(t, v, int64(50))
	}
}

func TestLocality_JumpTargets(t *testing.T) {
	// GIVEN a walk that always jumps
	cfg := DefaultConfig()
	cfg.ProbabilityMemoryJump = 1
	l := NewLocality(cfg, rand.New(rand.NewSource(5)))

	// THEN PC lands in code and MP in data
	for i := 0; i < 1000; i++ {
		pc := l.NextPC(0.3)
		mp := l.NextMP(0.9)
		assert.GreaterOrEqual(t, pc, 0.0)
		assert.Less(t, pc, 0.75)
		assert.GreaterOrEqual(t, mp, 0.75)
		assert.Less(t, mp, 1.0)
	}
}

func TestLocality_ZeroAlwaysJumps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProbabilityMemoryJump = 0
	cfg.MemoryPointerRelocationSpread = 0
	l := NewLocality(cfg, rand.New(rand.NewSource(6)))
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, l.NextMP(0), 0.75)
		// With no spread a non-zero PC stays put.
		assert.Equal(t, 0.5, l.NextPC(0.5))
	}
}

func TestLocality_RelocationNeverNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProbabilityMemoryJump = 0
	cfg.MemoryPointerRelocationSpread = float64(cfg.PageSize) // scale 1.0
	l := NewLocality(cfg, rand.New(rand.NewSource(7)))
	pc, mp := 0.01, 0.01
	for i := 0; i < 1000; i++ {
		pc = l.NextPC(pc)
		mp = l.NextMP(mp)
		assert.GreaterOrEqual(t, pc, 0.0)
		assert.GreaterOrEqual(t, mp, 0.0)
	}
}

func TestLocality_FreeOldPage_Extremes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProbabilityFreePage = 0
	never := NewLocality(cfg, rand.New(rand.NewSource(8)))
	cfg2 := DefaultConfig()
	cfg2.ProbabilityFreePage = 1
	always := NewLocality(cfg2, rand.New(rand.NewSource(8)))
	for i := 0; i < 100; i++ {
		assert.False(t, never.FreeOldPage())
		assert.True(t, always.FreeOldPage())
	}
}

func TestLocality_FreeLeftPage_EitherDirection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProbabilityFreePage = 1
	l := NewLocality(cfg, rand.New(rand.NewSource(8)))

	tests := []struct {
		name      string
		oldMP, mp float64
		wantFreed bool
	}{
		{"forward jump", 0.1, 0.5, true},
		{"backward jump", 0.9, 0.2, true},
		{"short move", 0.80, 0.85, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantFreed, l.FreeLeftPage(tc.oldMP, tc.mp))
		})
	}

	cfg.ProbabilityFreePage = 0
	never := NewLocality(cfg, rand.New(rand.NewSource(8)))
	assert.False(t, never.FreeLeftPage(0.1, 0.9), "a long move still needs the roll")
}
