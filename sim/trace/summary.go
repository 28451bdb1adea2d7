package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	ProcessesCreated   int            `json:"processes_created"`
	ProcessesDone      int            `json:"processes_done"`
	TotalEvictions     int            `json:"total_evictions"`
	EvictionsByClass   map[string]int `json:"evictions_by_class"` // "free"/"clean"/"dirty" → count
	EvictionsByKind    map[string]int `json:"evictions_by_kind"`  // KindExisting/KindNew → count
	MeanEvictionCycles float64        `json:"mean_eviction_cycles"`
	MaxEvictionCycles  int64          `json:"max_eviction_cycles"`
	ProcessesEvicting  int            `json:"processes_evicting"` // distinct PIDs with at least one eviction
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		EvictionsByClass: make(map[string]int),
		EvictionsByKind:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	for _, r := range st.Lifecycle {
		switch r.Event {
		case EventCreated:
			summary.ProcessesCreated++
		case EventDone:
			summary.ProcessesDone++
		}
	}

	summary.TotalEvictions = len(st.Evictions)
	if summary.TotalEvictions > 0 {
		pids := make(map[int]bool)
		var totalCycles int64
		for _, e := range st.Evictions {
			summary.EvictionsByClass[e.Class]++
			summary.EvictionsByKind[e.Kind]++
			pids[e.PID] = true
			totalCycles += e.Cycles
			if e.Cycles > summary.MaxEvictionCycles {
				summary.MaxEvictionCycles = e.Cycles
			}
		}
		summary.MeanEvictionCycles = float64(totalCycles) / float64(summary.TotalEvictions)
		summary.ProcessesEvicting = len(pids)
	}

	return summary
}
