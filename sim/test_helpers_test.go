package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedCosts returns constant latencies so cost composition can be asserted
// exactly.
type fixedCosts struct {
	disk       int64
	walk       int64
	tlbHit     bool
	processing int64
	request    int64
}

func (c *fixedCosts) DiskCycles() int64          { return c.disk }
func (c *fixedCosts) PageTableWalkCycles() int64 { return c.walk }
func (c *fixedCosts) TLBHit() bool               { return c.tlbHit }
func (c *fixedCosts) ProcessingCycles() int64    { return c.processing }
func (c *fixedCosts) DiskRequestCycles() int64   { return c.request }

func defaultFixedCosts() *fixedCosts {
	return &fixedCosts{disk: 1000, walk: 20, tlbHit: true, processing: 3, request: 10}
}

// newTestTranslator builds a translator with the named registered policy.
func newTestTranslator(t *testing.T, frames int, policy string, costs MemoryCosts, seed int64) *AddressTranslator {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	at, err := NewAddressTranslator(frames, 4096, NewReplacementPolicy(policy, rand.New(rand.NewSource(seed+1))), costs, rng)
	require.NoError(t, err)
	return at
}

// testConfig returns a small configuration that finishes quickly.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.ProcessesToDo = 4
	cfg.AverageProcessCycles = 20000
	cfg.AverageProcessCycleStdDev = 2000
	cfg.PagesMemoryToStart = 6
	cfg.NumberPages = 8
	cfg.AverageTimeBetweenProcessStarts = 5000
	cfg.Quantum = 500
	cfg.Seed = 42
	return cfg
}
