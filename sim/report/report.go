// Package report renders the results of a finished run: the classic text
// results file, a JSON document, and rows in a SQLite database.
package report

import (
	"github.com/rs/xid"

	"github.com/pagesim/pagesim/sim"
	"github.com/pagesim/pagesim/sim/trace"
)

// Report is the outcome of one simulation run.
type Report struct {
	RunID             string               `json:"run_id"`
	Policy            string               `json:"policy"`
	Seed              int64                `json:"seed"`
	Stop              sim.StopReason       `json:"stop"`
	Clock             int64                `json:"total_cycles"`
	Ticks             int64                `json:"ticks"`
	ProcessesCreated  int                  `json:"processes_created"`
	ProcessesDone     int                  `json:"processes_done"`
	TotalInstructions int64                `json:"total_instructions"`
	TotalWaits        int64                `json:"total_waits"`
	MeanInstructions  float64              `json:"mean_instructions"`
	WaitFraction      float64              `json:"wait_fraction"`
	Evictions         sim.EvictionCounters `json:"evictions"`
	Config            *sim.Config          `json:"config"`
	Processes         []sim.ProcessSummary `json:"processes"`
	Trace             *trace.TraceSummary  `json:"trace,omitempty"`
}

// New collects the report of a simulator after Run. Each report gets a fresh
// run ID.
func New(s *sim.Simulator) *Report {
	m := s.Scheduler.Metrics.Clone()
	r := &Report{
		RunID:             xid.New().String(),
		Policy:            s.Config.PolicyName(),
		Seed:              s.Config.Seed,
		Stop:              s.Stop,
		Clock:             s.Scheduler.Clock,
		Ticks:             s.Scheduler.Ticks,
		ProcessesCreated:  m.ProcessesCreated,
		ProcessesDone:     m.ProcessesDone,
		TotalInstructions: m.TotalInstructions,
		TotalWaits:        m.TotalWaits,
		MeanInstructions:  m.MeanInstructions(),
		WaitFraction:      m.WaitFraction(),
		Evictions:         m.Evictions,
		Config:            s.Config,
		Processes:         m.Retired,
	}
	if s.Trace != nil {
		r.Trace = trace.Summarize(s.Trace)
	}
	return r
}
