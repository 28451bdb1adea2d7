package replacement

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesim/pagesim/sim"
)

// entry builds a page table entry with the given bits.
func entry(frame int, valid, referenced, modified bool) *sim.PageTableEntry {
	return &sim.PageTableEntry{FrameNumber: frame, Valid: valid, Referenced: referenced, Modified: modified}
}

func TestNew_KnownNames_ReturnNamedPolicy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, name := range sim.ReplacementPolicyNames() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, New(name, rng).Name())
		})
	}
	assert.Equal(t, "random", New("", rng).Name())
}

func TestNew_UnknownName_Panics(t *testing.T) {
	assert.Panics(t, func() { New("lru", rand.New(rand.NewSource(1))) })
}

func TestRegister_SetsFactory(t *testing.T) {
	// GIVEN the package init has run
	// WHEN the sim factory is used
	p := sim.NewReplacementPolicy("clock", rand.New(rand.NewSource(1)))

	// THEN it returns this package's implementation
	_, ok := p.(*Clock)
	assert.True(t, ok, "got %T", p)
}

func TestPolicies_NoCandidate_ReturnsError(t *testing.T) {
	// GIVEN a table whose only entry is out and whose frame is taken
	table := []*sim.PageTableEntry{entry(0, false, false, false)}
	frames := []bool{true}

	for _, name := range sim.ReplacementPolicyNames() {
		t.Run(name, func(t *testing.T) {
			p := New(name, rand.New(rand.NewSource(7)))
			_, err := p.SelectVictim(table, frames)
			assert.ErrorIs(t, err, sim.ErrNoEvictionCandidate)
			assert.Zero(t, p.Counters().Total())
		})
	}
}

func TestPolicies_EmptyTable_ReturnsError(t *testing.T) {
	for _, name := range sim.ReplacementPolicyNames() {
		t.Run(name, func(t *testing.T) {
			p := New(name, rand.New(rand.NewSource(7)))
			_, err := p.SelectVictim(nil, []bool{false})
			assert.ErrorIs(t, err, sim.ErrNoEvictionCandidate)
		})
	}
}

func TestPolicies_VictimIsAlwaysEligible_AndCountedOnce(t *testing.T) {
	// GIVEN a mixed table: resident clean, resident dirty, out with free
	// frame, out with taken frame
	newTable := func() ([]*sim.PageTableEntry, []bool) {
		return []*sim.PageTableEntry{
				entry(0, true, true, false),
				entry(1, true, false, true),
				entry(2, false, false, false),
				entry(0, false, false, false),
			},
			[]bool{true, true, false}
	}

	for _, name := range sim.ReplacementPolicyNames() {
		t.Run(name, func(t *testing.T) {
			p := New(name, rand.New(rand.NewSource(3)))
			for i := 0; i < 50; i++ {
				table, frames := newTable()
				// WHEN a victim is selected
				victim, err := p.SelectVictim(table, frames)
				require.NoError(t, err)

				// THEN it is never the out page whose frame is taken
				assert.NotEqual(t, 3, victim)
				assert.True(t, sim.IsEvictionCandidate(table[victim], frames))
			}
			// AND every selection bumped exactly one counter
			assert.Equal(t, int64(50), p.Counters().Total())
		})
	}
}

func TestRandom_CoversAllCandidates(t *testing.T) {
	table := []*sim.PageTableEntry{
		entry(0, true, false, false),
		entry(1, true, false, false),
		entry(2, true, false, false),
	}
	frames := []bool{true, true, true}
	r := NewRandom(rand.New(rand.NewSource(11)))

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		v, err := r.SelectVictim(table, frames)
		require.NoError(t, err)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, int64(200), r.Counters().CleanPagesReturned)
}

func TestNRU_PrefersLowestClass(t *testing.T) {
	tests := []struct {
		name  string
		table []*sim.PageTableEntry
		want  int
		class func(sim.EvictionCounters) int64
	}{
		{
			name: "free frame first",
			table: []*sim.PageTableEntry{
				entry(0, true, false, false),
				entry(1, false, false, false),
			},
			want:  1,
			class: func(c sim.EvictionCounters) int64 { return c.FreePagesReturned },
		},
		{
			name: "unreferenced clean over unreferenced dirty",
			table: []*sim.PageTableEntry{
				entry(0, true, false, true),
				entry(1, true, false, false),
			},
			want:  1,
			class: func(c sim.EvictionCounters) int64 { return c.CleanPagesReturned },
		},
		{
			name: "unreferenced dirty over referenced clean",
			table: []*sim.PageTableEntry{
				entry(0, true, true, false),
				entry(1, true, false, true),
			},
			want:  1,
			class: func(c sim.EvictionCounters) int64 { return c.DirtyPagesReturned },
		},
		{
			name: "referenced clean over referenced dirty",
			table: []*sim.PageTableEntry{
				entry(0, true, true, true),
				entry(1, true, true, false),
			},
			want:  1,
			class: func(c sim.EvictionCounters) int64 { return c.CleanPagesReturned },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := NewNRU(rand.New(rand.NewSource(5)))
			victim, err := n.SelectVictim(tc.table, []bool{true, false})
			require.NoError(t, err)
			assert.Equal(t, tc.want, victim)
			assert.Equal(t, int64(1), tc.class(n.Counters()))
		})
	}
}

func TestNRU_DoesNotMutateTable(t *testing.T) {
	table := []*sim.PageTableEntry{entry(0, true, true, true), entry(1, true, true, false)}
	n := NewNRU(rand.New(rand.NewSource(5)))
	_, err := n.SelectVictim(table, []bool{true, true})
	require.NoError(t, err)
	assert.True(t, table[0].Referenced)
	assert.True(t, table[1].Referenced)
}

func TestClock_SecondChance(t *testing.T) {
	// GIVEN three resident pages, the first two referenced
	table := []*sim.PageTableEntry{
		entry(0, true, true, false),
		entry(1, true, true, true),
		entry(2, true, false, false),
	}
	frames := []bool{true, true, true}
	c := NewClock()

	// WHEN the hand sweeps from page 0
	victim, err := c.SelectVictim(table, frames)
	require.NoError(t, err)

	// THEN referenced pages are skipped with their bits cleared
	assert.Equal(t, 2, victim)
	assert.False(t, table[0].Referenced)
	assert.False(t, table[1].Referenced)
	assert.Equal(t, 0, c.Hand())

	// AND the next sweep takes page 0, whose chance is used up
	victim, err = c.SelectVictim(table, frames)
	require.NoError(t, err)
	assert.Equal(t, 0, victim)
	assert.Equal(t, 1, c.Hand())
}

func TestClock_AllReferenced_WrapsAround(t *testing.T) {
	table := []*sim.PageTableEntry{
		entry(0, true, true, false),
		entry(1, true, true, false),
	}
	c := NewClock()
	victim, err := c.SelectVictim(table, []bool{true, true})
	require.NoError(t, err)
	assert.Equal(t, 0, victim)
}

func TestClock_FreeFrameBeforeResident(t *testing.T) {
	table := []*sim.PageTableEntry{
		entry(0, true, false, false),
		entry(1, false, false, false),
	}
	c := NewClock()
	victim, err := c.SelectVictim(table, []bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, 1, victim)
	assert.Equal(t, int64(1), c.Counters().FreePagesReturned)
	assert.Equal(t, 0, c.Hand())
}

func TestClock_TableShrinkBelowHand_Resets(t *testing.T) {
	c := &Clock{hand: 9}
	table := []*sim.PageTableEntry{entry(0, true, false, false)}
	victim, err := c.SelectVictim(table, []bool{true})
	require.NoError(t, err)
	assert.Equal(t, 0, victim)
}
