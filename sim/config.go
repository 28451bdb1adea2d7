package sim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every named parameter of a simulation run. Fields are the
// typed accessors; the engine never reads a parameter by name.
type Config struct {
	NumberPages                     int     `yaml:"number_pages" json:"number_pages"`                                               // per-process frame cap (0 = uncapped)
	PageSize                        int     `yaml:"page_size" json:"page_size"`                                                     // bytes per page (must be > 0)
	ProcessesToDo                   int     `yaml:"processes_to_do" json:"processes_to_do"`                                         // processes created over the run
	AverageProcessCycles            float64 `yaml:"average_process_cycles" json:"average_process_cycles"`                           // mean instruction budget
	AverageProcessCycleStdDev       float64 `yaml:"average_process_cycle_std_dev" json:"average_process_cycle_std_dev"`             // stddev of instruction budget
	PagesMemoryToStart              int     `yaml:"pages_memory_to_start" json:"pages_memory_to_start"`                             // upper bound of the initial reservation
	AverageTimeBetweenProcessStarts int     `yaml:"average_time_between_process_starts" json:"average_time_between_process_starts"` // arrival interval bound (cycles)
	Quantum                         int     `yaml:"quantum" json:"quantum"`                                                         // burst length per tick (cycles)
	MemoryPointerRelocationSpread   float64 `yaml:"memory_pointer_relocation_spread" json:"memory_pointer_relocation_spread"`       // bytes; scaled by page size
	CPUCyclesPerDiskRequest         int     `yaml:"cpu_cycles_per_disk_request" json:"cpu_cycles_per_disk_request"`                 // CPU cycles to issue a disk request
	WaitCyclesPerDiskRequest        int     `yaml:"wait_cycles_per_disk_request" json:"wait_cycles_per_disk_request"`               // mean disk latency
	WaitCyclesPerDiskRequestSpread  int     `yaml:"wait_cycles_per_disk_request_spread" json:"wait_cycles_per_disk_request_spread"` // disk latency stddev
	ProbabilityMemoryJump           float64 `yaml:"probability_memory_jump" json:"probability_memory_jump"`                         // chance PC/MP jump instead of relocating
	CPUCyclesProcessing             int     `yaml:"cpu_cycles_processing" json:"cpu_cycles_processing"`                             // bound of the per-step CPU cost
	ProbabilityFreePage             float64 `yaml:"probability_free_page" json:"probability_free_page"`                             // chance to free the page left behind
	TLBHitRate                      float64 `yaml:"tlb_hit_rate" json:"tlb_hit_rate"`                                               // chance a resident access hits the TLB
	WaitCyclesPerPageTableLookup    float64 `yaml:"wait_cycles_per_page_table_lookup" json:"wait_cycles_per_page_table_lookup"`     // mean page-table walk cost
	WaitCyclesPerPageTableSpread    float64 `yaml:"wait_cycles_per_page_table_spread" json:"wait_cycles_per_page_table_spread"`     // walk cost stddev

	ReplacementPolicy string `yaml:"replacement_policy,omitempty" json:"replacement_policy,omitempty"` // "random" (default), "nru", "clock"
	Seed              int64  `yaml:"seed,omitempty" json:"seed,omitempty"`                             // master RNG seed
	MaxTicks          int64  `yaml:"max_ticks,omitempty" json:"max_ticks,omitempty"`                   // 0 = run until all processes are done
}

// requiredParams lists the keys a config file must set explicitly.
var requiredParams = []string{
	"number_pages",
	"page_size",
	"processes_to_do",
	"average_process_cycles",
	"average_process_cycle_std_dev",
	"pages_memory_to_start",
	"average_time_between_process_starts",
	"quantum",
	"memory_pointer_relocation_spread",
	"cpu_cycles_per_disk_request",
	"wait_cycles_per_disk_request",
	"wait_cycles_per_disk_request_spread",
	"probability_memory_jump",
	"cpu_cycles_processing",
	"probability_free_page",
	"tlb_hit_rate",
	"wait_cycles_per_page_table_lookup",
	"wait_cycles_per_page_table_spread",
}

// DefaultConfig returns a runnable baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		NumberPages:                     64,
		PageSize:                        4096,
		ProcessesToDo:                   20,
		AverageProcessCycles:            100000,
		AverageProcessCycleStdDev:       20000,
		PagesMemoryToStart:              16,
		AverageTimeBetweenProcessStarts: 20000,
		Quantum:                         1000,
		MemoryPointerRelocationSpread:   200,
		CPUCyclesPerDiskRequest:         20,
		WaitCyclesPerDiskRequest:        3000,
		WaitCyclesPerDiskRequestSpread:  500,
		ProbabilityMemoryJump:           0.1,
		CPUCyclesProcessing:             10,
		ProbabilityFreePage:             0.1,
		TLBHitRate:                      0.95,
		WaitCyclesPerPageTableLookup:    20,
		WaitCyclesPerPageTableSpread:    5,
		ReplacementPolicy:               DefaultReplacementPolicy,
		Seed:                            42,
	}
}

// LoadConfig reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML; anything else is read as key=value properties with
// camelCase keys (numberPages=64). The result is validated before return.
func LoadConfig(path string) (*Config, error) {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	default:
		data, err = propertiesToYAML(path)
		if err != nil {
			return nil, err
		}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML configuration document.
// Unknown keys and missing required keys are errors.
func ParseConfig(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var missing []string
	for _, key := range requiredParams {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing parameters: %s", strings.Join(missing, ", "))
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// propertiesToYAML reads a properties file and rewrites it as a flat YAML
// mapping so both formats share the strict decoding path.
func propertiesToYAML(path string) ([]byte, error) {
	props, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		v := strings.TrimSpace(props[k])
		if strings.ContainsAny(v, "\n:#") {
			return nil, fmt.Errorf("reading config: malformed value for %s: %q", k, v)
		}
		fmt.Fprintf(&buf, "%s: %s\n", camelToSnake(k), v)
	}
	return buf.Bytes(), nil
}

// camelToSnake maps waitCyclesPerDiskRequest to wait_cycles_per_disk_request.
// Keys already in snake_case pass through unchanged.
func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Validate checks parameter ranges. Every draw in the engine relies on these
// bounds (rand.Intn panics on a non-positive bound).
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0, got %d", c.PageSize)
	}
	if c.NumberPages < 0 {
		return fmt.Errorf("number_pages must be >= 0, got %d", c.NumberPages)
	}
	if c.ProcessesToDo < 1 {
		return fmt.Errorf("processes_to_do must be >= 1, got %d", c.ProcessesToDo)
	}
	if c.AverageProcessCycles <= 0 {
		return fmt.Errorf("average_process_cycles must be > 0, got %f", c.AverageProcessCycles)
	}
	if c.AverageProcessCycleStdDev < 0 {
		return fmt.Errorf("average_process_cycle_std_dev must be >= 0, got %f", c.AverageProcessCycleStdDev)
	}
	if c.PagesMemoryToStart < 1 {
		return fmt.Errorf("pages_memory_to_start must be >= 1, got %d", c.PagesMemoryToStart)
	}
	if c.AverageTimeBetweenProcessStarts < 1 {
		return fmt.Errorf("average_time_between_process_starts must be >= 1, got %d", c.AverageTimeBetweenProcessStarts)
	}
	if c.Quantum < 1 {
		return fmt.Errorf("quantum must be >= 1, got %d", c.Quantum)
	}
	if c.MemoryPointerRelocationSpread < 0 {
		return fmt.Errorf("memory_pointer_relocation_spread must be >= 0, got %f", c.MemoryPointerRelocationSpread)
	}
	if c.CPUCyclesPerDiskRequest < 0 {
		return fmt.Errorf("cpu_cycles_per_disk_request must be >= 0, got %d", c.CPUCyclesPerDiskRequest)
	}
	if c.WaitCyclesPerDiskRequest < 0 || c.WaitCyclesPerDiskRequestSpread < 0 {
		return fmt.Errorf("wait_cycles_per_disk_request and its spread must be >= 0, got %d and %d",
			c.WaitCyclesPerDiskRequest, c.WaitCyclesPerDiskRequestSpread)
	}
	if c.CPUCyclesProcessing < 1 {
		return fmt.Errorf("cpu_cycles_processing must be >= 1, got %d", c.CPUCyclesProcessing)
	}
	if c.WaitCyclesPerPageTableLookup < 0 || c.WaitCyclesPerPageTableSpread < 0 {
		return fmt.Errorf("wait_cycles_per_page_table_lookup and its spread must be >= 0, got %f and %f",
			c.WaitCyclesPerPageTableLookup, c.WaitCyclesPerPageTableSpread)
	}
	probabilities := []struct {
		name  string
		value float64
	}{
		{"probability_memory_jump", c.ProbabilityMemoryJump},
		{"probability_free_page", c.ProbabilityFreePage},
		{"tlb_hit_rate", c.TLBHitRate},
	}
	for _, p := range probabilities {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %f", p.name, p.value)
		}
	}
	if !IsValidReplacementPolicy(c.ReplacementPolicy) {
		return fmt.Errorf("unknown replacement policy %q", c.ReplacementPolicy)
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("max_ticks must be >= 0, got %d", c.MaxTicks)
	}
	return nil
}

// PolicyName returns the configured replacement policy, resolving empty to
// DefaultReplacementPolicy.
func (c *Config) PolicyName() string {
	if c.ReplacementPolicy == "" {
		return DefaultReplacementPolicy
	}
	return c.ReplacementPolicy
}
