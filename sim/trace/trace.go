package trace

// TraceLevel controls the verbosity of tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures process lifecycle events and every eviction.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects records during a simulation.
type SimulationTrace struct {
	Config    TraceConfig       `json:"-"`
	Lifecycle []LifecycleRecord `json:"lifecycle"`
	Evictions []EvictionRecord  `json:"evictions"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// Returns nil for TraceLevelNone so callers can pass the result straight
// through; every Record method is a no-op on a nil trace.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	if config.Level == TraceLevelNone || config.Level == "" {
		return nil
	}
	return &SimulationTrace{
		Config:    config,
		Lifecycle: make([]LifecycleRecord, 0),
		Evictions: make([]EvictionRecord, 0),
	}
}

// RecordLifecycle appends a lifecycle record.
func (st *SimulationTrace) RecordLifecycle(record LifecycleRecord) {
	if st == nil {
		return
	}
	st.Lifecycle = append(st.Lifecycle, record)
}

// RecordEviction appends an eviction record.
func (st *SimulationTrace) RecordEviction(record EvictionRecord) {
	if st == nil {
		return
	}
	st.Evictions = append(st.Evictions, record)
}
