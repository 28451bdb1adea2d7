// Tracks run-wide totals folded in from retired processes.

package sim

// Metrics aggregates the counters of retired processes for final reporting.
// Live processes contribute nothing until they retire.
type Metrics struct {
	ProcessesCreated  int              `json:"processes_created"`
	ProcessesDone     int              `json:"processes_done"`
	TotalWaits        int64            `json:"total_waits"`        // sum of retired TotalWaitCycles
	TotalInstructions int64            `json:"total_instructions"` // sum of retired TotalInstructions
	Evictions         EvictionCounters `json:"evictions"`

	Retired []ProcessSummary `json:"retired"` // in retirement order
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{Retired: make([]ProcessSummary, 0)}
}

// Retire folds one finished process into the totals.
func (m *Metrics) Retire(p ProcessSummary) {
	m.ProcessesDone++
	m.TotalWaits += p.TotalWaitCycles
	m.TotalInstructions += p.TotalInstructions
	m.Evictions.Add(p.Evictions)
	m.Retired = append(m.Retired, p)
}

// Clone returns a deep copy safe to hand to another goroutine.
func (m *Metrics) Clone() Metrics {
	c := *m
	c.Retired = append([]ProcessSummary(nil), m.Retired...)
	return c
}

// MeanInstructions is the average instruction count of retired processes.
func (m *Metrics) MeanInstructions() float64 {
	if m.ProcessesDone == 0 {
		return 0
	}
	return float64(m.TotalInstructions) / float64(m.ProcessesDone)
}

// WaitFraction is the share of retired cycles spent waiting on faults.
func (m *Metrics) WaitFraction() float64 {
	total := m.TotalInstructions + m.TotalWaits
	if total == 0 {
		return 0
	}
	return float64(m.TotalWaits) / float64(total)
}
