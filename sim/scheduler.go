package sim

import (
	"fmt"

	"github.com/google/btree"
	"github.com/sirupsen/logrus"

	"github.com/pagesim/pagesim/sim/trace"
)

// SystemOverheadCycles is charged to the global clock at the end of every tick.
const SystemOverheadCycles int64 = 50

// Scheduler owns the global cycle clock and the live processes. Each tick it
// admits arrivals, steps every live process once in PID order and retires the
// finished ones.
//
// Not thread-safe: observers receive copies via Snapshot.
type Scheduler struct {
	Clock   int64
	Ticks   int64
	Metrics *Metrics

	cfg        *Config
	rng        *PartitionedRNG
	workload   *WorkloadGenerator
	live       *btree.BTreeG[*Process]
	nextPID    int
	untilNext  int64 // arrival countdown, in cycles
	lastClock  int64 // clock at the start of the previous tick
	trace      *trace.SimulationTrace
	policyName string
}

func lessByPID(a, b *Process) bool { return a.PID < b.PID }

// NewScheduler creates a scheduler at cycle 0 with no processes. tr may be nil.
func NewScheduler(cfg *Config, rng *PartitionedRNG, tr *trace.SimulationTrace) *Scheduler {
	return &Scheduler{
		Metrics:    NewMetrics(),
		cfg:        cfg,
		rng:        rng,
		workload:   NewWorkloadGenerator(cfg, rng.ForSubsystem(SubsystemWorkload)),
		live:       btree.NewG[*Process](8, lessByPID),
		trace:      tr,
		policyName: cfg.PolicyName(),
	}
}

// Tick advances the simulation by one scheduling round.
func (s *Scheduler) Tick() error {
	if s.Ticks == 0 && s.cfg.ProcessesToDo > 0 {
		if err := s.spawn(); err != nil {
			return err
		}
	}

	elapsed := s.Clock - s.lastClock
	s.lastClock = s.Clock
	if s.cfg.ProcessesToDo > s.nextPID {
		if elapsed > s.untilNext {
			s.untilNext = s.workload.ArrivalInterval()
			if err := s.spawn(); err != nil {
				return err
			}
		} else {
			s.untilNext -= elapsed
		}
	}

	// Snapshot the order first: retirement mutates the tree.
	procs := make([]*Process, 0, s.live.Len())
	s.live.Ascend(func(p *Process) bool {
		procs = append(procs, p)
		return true
	})
	for _, p := range procs {
		cycles, err := p.Step(s.Clock)
		if err != nil {
			return fmt.Errorf("cycle %d: %w", s.Clock, err)
		}
		s.Clock += cycles
	}
	for _, p := range procs {
		if p.IsDone() {
			s.retire(p)
		}
	}

	s.Clock += SystemOverheadCycles
	s.Ticks++
	return nil
}

// spawn creates the next process with its own translator, policy and streams.
func (s *Scheduler) spawn() error {
	s.nextPID++
	pid := s.nextPID
	cyclesToGo := s.workload.CyclesToGo()
	frames := s.workload.FrameReservation()

	streams := s.rng.ForProcess(pid)
	policy := NewReplacementPolicy(s.policyName, streams.Replacement)
	memory, err := NewAddressTranslator(frames, s.cfg.PageSize, policy, NewStochasticCosts(s.cfg, streams.Memory), streams.Memory)
	if err != nil {
		return fmt.Errorf("creating process %d: %w", pid, err)
	}
	memory.SetTrace(s.trace, pid)
	memory.SetClock(s.Clock)

	p := NewProcess(ProcessParams{
		PID:            pid,
		CyclesToGo:     cyclesToGo,
		PagesToPreload: frames,
		Quantum:        int64(s.cfg.Quantum),
		CreatedAt:      s.Clock,
	}, memory, NewLocality(s.cfg, streams.Process), NewStochasticCosts(s.cfg, streams.Process))

	s.live.ReplaceOrInsert(p)
	s.Metrics.ProcessesCreated++
	logrus.Infof("[cycle %09d] process %d created for %d cycles", s.Clock, pid, cyclesToGo)
	s.trace.RecordLifecycle(trace.LifecycleRecord{
		PID:        pid,
		Clock:      s.Clock,
		Event:      trace.EventCreated,
		CyclesToGo: cyclesToGo,
		Frames:     frames,
	})
	return nil
}

// retire folds a finished process into the totals and drops it.
func (s *Scheduler) retire(p *Process) {
	s.live.Delete(p)
	summary := p.Summary()
	s.Metrics.Retire(summary)
	logrus.Infof("[cycle %09d] process %d done after %d instructions, %d wait cycles",
		s.Clock, p.PID, p.TotalInstructions, p.TotalWaitCycles)
	s.trace.RecordLifecycle(trace.LifecycleRecord{
		PID:               p.PID,
		Clock:             s.Clock,
		Event:             trace.EventDone,
		CyclesToGo:        p.CyclesToGo,
		Frames:            summary.Frames,
		TotalInstructions: p.TotalInstructions,
		TotalWaitCycles:   p.TotalWaitCycles,
	})
	s.rng.ReleaseProcess(p.PID)
}

// Finished reports whether every configured process has been retired.
func (s *Scheduler) Finished() bool {
	return s.Metrics.ProcessesDone >= s.cfg.ProcessesToDo
}

// LiveCount is the number of processes not yet retired.
func (s *Scheduler) LiveCount() int {
	return s.live.Len()
}

// Process looks up a live process by PID.
func (s *Scheduler) Process(pid int) (*Process, bool) {
	return s.live.Get(&Process{PID: pid})
}

// LiveProcesses returns summaries of the live processes in PID order.
func (s *Scheduler) LiveProcesses() []ProcessSummary {
	out := make([]ProcessSummary, 0, s.live.Len())
	s.live.Ascend(func(p *Process) bool {
		out = append(out, p.Summary())
		return true
	})
	return out
}

// CheckInvariants verifies frame occupancy for every live process.
func (s *Scheduler) CheckInvariants() error {
	var err error
	s.live.Ascend(func(p *Process) bool {
		err = p.Memory().CheckOccupancy()
		return err == nil
	})
	return err
}

// Read-only counters.

func (s *Scheduler) ProcessesCreated() int     { return s.Metrics.ProcessesCreated }
func (s *Scheduler) ProcessesDone() int        { return s.Metrics.ProcessesDone }
func (s *Scheduler) TotalWaits() int64         { return s.Metrics.TotalWaits }
func (s *Scheduler) TotalInstructions() int64  { return s.Metrics.TotalInstructions }
func (s *Scheduler) CurrentCycle() int64       { return s.Clock }
func (s *Scheduler) FreePagesReturned() int64  { return s.Metrics.Evictions.FreePagesReturned }
func (s *Scheduler) CleanPagesReturned() int64 { return s.Metrics.Evictions.CleanPagesReturned }
func (s *Scheduler) DirtyPagesReturned() int64 { return s.Metrics.Evictions.DirtyPagesReturned }
