// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pagesim/pagesim/sim/trace"
)

// StopReason records why Run returned.
type StopReason string

const (
	StopCompleted StopReason = "completed" // every configured process retired
	StopMaxTicks  StopReason = "max_ticks" // tick horizon reached first
	StopError     StopReason = "error"
)

// Snapshot is a copy of the observable simulation state after a tick.
// Holds no references into live simulation state.
type Snapshot struct {
	Clock    int64            `json:"clock"`
	Ticks    int64            `json:"ticks"`
	Policy   string           `json:"policy"`
	Metrics  Metrics          `json:"metrics"`
	Live     []ProcessSummary `json:"live"`
	Finished bool             `json:"finished"`
}

// Observer receives a snapshot after every tick. Called on the simulation
// goroutine; implementations that hand snapshots to other goroutines must
// synchronize themselves.
type Observer interface {
	Observe(Snapshot)
}

// Simulator drives a Scheduler to completion.
type Simulator struct {
	Config    *Config
	Key       SimulationKey
	Scheduler *Scheduler
	Trace     *trace.SimulationTrace
	Stop      StopReason

	observer Observer
}

// NewSimulator validates cfg and builds a scheduler seeded from cfg.Seed.
// tr may be nil.
func NewSimulator(cfg *Config, tr *trace.SimulationTrace) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	key := NewSimulationKey(cfg.Seed)
	return &Simulator{
		Config:    cfg,
		Key:       key,
		Scheduler: NewScheduler(cfg, NewPartitionedRNG(key), tr),
		Trace:     tr,
	}, nil
}

// SetObserver attaches an observer. nil detaches.
func (sim *Simulator) SetObserver(o Observer) {
	sim.observer = o
}

// Run ticks until every process has retired, the MaxTicks horizon is reached,
// or a tick fails. The first error aborts the run.
func (sim *Simulator) Run() error {
	s := sim.Scheduler
	logrus.Infof("[cycle %09d] Simulation started: %d processes, policy %s, seed %d",
		s.Clock, sim.Config.ProcessesToDo, sim.Config.PolicyName(), sim.Key)
	for !s.Finished() {
		if sim.Config.MaxTicks > 0 && s.Ticks >= sim.Config.MaxTicks {
			logrus.Warnf("[cycle %09d] Stopping at tick horizon %d with %d/%d processes done",
				s.Clock, sim.Config.MaxTicks, s.ProcessesDone(), sim.Config.ProcessesToDo)
			sim.Stop = StopMaxTicks
			sim.publish()
			return nil
		}
		if err := s.Tick(); err != nil {
			sim.Stop = StopError
			return fmt.Errorf("tick %d: %w", s.Ticks, err)
		}
		sim.publish()
	}
	sim.Stop = StopCompleted
	logrus.Infof("[cycle %09d] Simulation ended after %d ticks", s.Clock, s.Ticks)
	return nil
}

func (sim *Simulator) publish() {
	if sim.observer != nil {
		sim.observer.Observe(sim.Snapshot())
	}
}

// Snapshot copies the current state.
func (sim *Simulator) Snapshot() Snapshot {
	s := sim.Scheduler
	return Snapshot{
		Clock:    s.Clock,
		Ticks:    s.Ticks,
		Policy:   sim.Config.PolicyName(),
		Metrics:  s.Metrics.Clone(),
		Live:     s.LiveProcesses(),
		Finished: s.Finished(),
	}
}
