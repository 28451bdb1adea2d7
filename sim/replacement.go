package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// EvictionClass describes the state of a victim page when it was handed back.
type EvictionClass string

const (
	EvictionFree  EvictionClass = "free"  // page was not resident; its frame was already free
	EvictionClean EvictionClass = "clean" // resident and unmodified
	EvictionDirty EvictionClass = "dirty" // resident and modified; needs a write-back
)

// ClassifyVictim returns the eviction class of entry at selection time.
func ClassifyVictim(entry *PageTableEntry) EvictionClass {
	switch {
	case !entry.Valid:
		return EvictionFree
	case entry.Modified:
		return EvictionDirty
	default:
		return EvictionClean
	}
}

// EvictionCounters tallies victims by class. Every successful SelectVictim
// call adds exactly one to exactly one counter.
type EvictionCounters struct {
	FreePagesReturned  int64 `json:"free_pages_returned"`
	CleanPagesReturned int64 `json:"clean_pages_returned"`
	DirtyPagesReturned int64 `json:"dirty_pages_returned"`
}

// RecordVictim classifies entry and bumps the matching counter.
func (c *EvictionCounters) RecordVictim(entry *PageTableEntry) EvictionClass {
	class := ClassifyVictim(entry)
	switch class {
	case EvictionFree:
		c.FreePagesReturned++
	case EvictionDirty:
		c.DirtyPagesReturned++
	default:
		c.CleanPagesReturned++
	}
	return class
}

// Counters returns a copy of the tallies.
func (c *EvictionCounters) Counters() EvictionCounters {
	return *c
}

// Add folds other into c.
func (c *EvictionCounters) Add(other EvictionCounters) {
	c.FreePagesReturned += other.FreePagesReturned
	c.CleanPagesReturned += other.CleanPagesReturned
	c.DirtyPagesReturned += other.DirtyPagesReturned
}

// Total is the number of victims selected.
func (c EvictionCounters) Total() int64 {
	return c.FreePagesReturned + c.CleanPagesReturned + c.DirtyPagesReturned
}

// IsEvictionCandidate reports whether a policy may return entry as a victim:
// either it is resident, or it is not and the frame it last held is free.
func IsEvictionCandidate(entry *PageTableEntry, frames []bool) bool {
	if entry.Valid {
		return true
	}
	f := entry.FrameNumber
	return f >= 0 && f < len(frames) && !frames[f]
}

// ReplacementPolicy chooses which page gives up its frame.
//
// The page table and frame table are borrowed for the duration of the call
// only; implementations must not retain them, and must read them afresh on
// every call since the translator mutates both between calls. A policy may
// clear Referenced bits while sweeping but must not touch any other field.
type ReplacementPolicy interface {
	// Name returns the registered policy name.
	Name() string
	// SelectVictim returns the page number to evict or reuse and records its
	// eviction class. Returns ErrNoEvictionCandidate if nothing is eligible.
	SelectVictim(table []*PageTableEntry, frames []bool) (int, error)
	// Counters returns the eviction-class tallies for this policy instance.
	Counters() EvictionCounters
}

// DefaultReplacementPolicy is used when no policy is configured.
const DefaultReplacementPolicy = "random"

// ValidReplacementPolicies is the set of recognized replacement policy names.
// Shared by Config.Validate() and NewReplacementPolicy() to avoid duplication.
var ValidReplacementPolicies = map[string]bool{"": true, "random": true, "nru": true, "clock": true}

// IsValidReplacementPolicy returns true if name is a recognized policy.
func IsValidReplacementPolicy(name string) bool {
	return ValidReplacementPolicies[name]
}

// ReplacementPolicyNames returns the non-empty policy names, sorted.
func ReplacementPolicyNames() []string {
	names := make([]string, 0, len(ValidReplacementPolicies))
	for name := range ValidReplacementPolicies {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewReplacementPolicyFunc is set by sim/replacement's init(). It receives a
// resolved (non-empty) policy name.
var NewReplacementPolicyFunc func(name string, rng *rand.Rand) ReplacementPolicy

// NewReplacementPolicy creates a policy by name. Empty string selects
// DefaultReplacementPolicy. Panics on unrecognized names or when
// sim/replacement has not been imported.
func NewReplacementPolicy(name string, rng *rand.Rand) ReplacementPolicy {
	if !IsValidReplacementPolicy(name) {
		panic(fmt.Sprintf("unknown replacement policy %q", name))
	}
	if NewReplacementPolicyFunc == nil {
		panic("NewReplacementPolicyFunc not registered: import sim/replacement")
	}
	if name == "" {
		name = DefaultReplacementPolicy
	}
	return NewReplacementPolicyFunc(name, rng)
}
