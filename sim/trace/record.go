// Package trace provides lifecycle and eviction trace recording.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Lifecycle events recorded for each process.
const (
	EventCreated = "created"
	EventDone    = "done"
)

// Eviction kinds: a fault on an existing page, or a new page that had no
// reserved frame left.
const (
	KindExisting = "existing"
	KindNew      = "new"
)

// LifecycleRecord captures a process creation or retirement.
type LifecycleRecord struct {
	PID               int    `json:"pid"`
	Clock             int64  `json:"clock"`
	Event             string `json:"event"`
	CyclesToGo        int64  `json:"cycles_to_go"`
	Frames            int    `json:"frames"`             // frame-table length reserved for the process
	TotalInstructions int64  `json:"total_instructions"` // zero on creation
	TotalWaitCycles   int64  `json:"total_wait_cycles"`  // zero on creation
}

// EvictionRecord captures one victim selection and the swap that followed.
type EvictionRecord struct {
	PID        int    `json:"pid"`
	Clock      int64  `json:"clock"`
	Kind       string `json:"kind"` // KindExisting or KindNew
	VictimPage int    `json:"victim_page"`
	TargetPage int    `json:"target_page"`
	Frame      int    `json:"frame"`  // frame handed from victim to target
	Class      string `json:"class"`  // "free", "clean" or "dirty"
	Cycles     int64  `json:"cycles"` // total swap cost charged
}
