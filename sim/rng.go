package sim

import (
	"hash/fnv"
	"math/rand"
	"strconv"
)

// SimulationKey is the seed of a run. Equal keys and equal configurations
// give identical runs.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Subsystem names one random stream of a run.
type Subsystem string

// SubsystemWorkload drives arrivals, cycle budgets and frame reservations.
// It is seeded with the key itself.
const SubsystemWorkload Subsystem = "workload"

// SubsystemProcess drives the locality walk and CPU costs of pid.
func SubsystemProcess(pid int) Subsystem {
	return Subsystem("process_" + strconv.Itoa(pid))
}

// SubsystemMemory drives the translator of pid: TLB hits, disk and walk
// costs, dirty bits and code/data choice.
func SubsystemMemory(pid int) Subsystem {
	return Subsystem("memory_" + strconv.Itoa(pid))
}

// SubsystemReplacement drives the victim choice of pid's policy.
func SubsystemReplacement(pid int) Subsystem {
	return Subsystem("replacement_" + strconv.Itoa(pid))
}

// ProcessStreams are the three streams owned by one process.
type ProcessStreams struct {
	Process     *rand.Rand
	Memory      *rand.Rand
	Replacement *rand.Rand
}

// PartitionedRNG hands out one seeded *rand.Rand per subsystem. A stream's
// seed is key XOR fnv1a(name), so the draws of one process never depend on
// how many draws any other process made.
//
// Not thread-safe.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[Subsystem]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[Subsystem]*rand.Rand),
	}
}

// ForSubsystem returns the stream for s, creating it on first use. Repeated
// calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(s Subsystem) *rand.Rand {
	if rng, ok := p.streams[s]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seedFor(s)))
	p.streams[s] = rng
	return rng
}

// ForProcess returns the streams of pid.
func (p *PartitionedRNG) ForProcess(pid int) ProcessStreams {
	return ProcessStreams{
		Process:     p.ForSubsystem(SubsystemProcess(pid)),
		Memory:      p.ForSubsystem(SubsystemMemory(pid)),
		Replacement: p.ForSubsystem(SubsystemReplacement(pid)),
	}
}

// ReleaseProcess drops the streams of a retired process. Requesting them
// again starts each sequence over.
func (p *PartitionedRNG) ReleaseProcess(pid int) {
	delete(p.streams, SubsystemProcess(pid))
	delete(p.streams, SubsystemMemory(pid))
	delete(p.streams, SubsystemReplacement(pid))
}

// Streams is the number of streams currently held.
func (p *PartitionedRNG) Streams() int {
	return len(p.streams)
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func (p *PartitionedRNG) seedFor(s Subsystem) int64 {
	if s == SubsystemWorkload {
		return int64(p.key)
	}
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(p.key) ^ int64(h.Sum64())
}
