package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTextPath is the results file name used when none is given.
func DefaultTextPath(policy string) string {
	return fmt.Sprintf("results_%s.txt", policy)
}

// WriteText renders r in the results-file layout: the policy, the
// configuration the run used, then the totals.
func WriteText(w io.Writer, r *Report) error {
	cfg, err := yaml.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "[PageReplacement]\n%s\n\n", r.Policy)
	fmt.Fprintf(bw, "[Configuration]\n%s\n", cfg)
	fmt.Fprintf(bw, "[Results]\n")
	fmt.Fprintf(bw, "Total instructions: %d\n", r.TotalInstructions)
	fmt.Fprintf(bw, "Total waits: %d\n", r.TotalWaits)
	fmt.Fprintf(bw, "Total cycles: %d\n", r.Clock)
	fmt.Fprintf(bw, "Total free pages returned: %d\n", r.Evictions.FreePagesReturned)
	fmt.Fprintf(bw, "Total clean pages returned: %d\n", r.Evictions.CleanPagesReturned)
	fmt.Fprintf(bw, "Total dirty pages returned: %d\n", r.Evictions.DirtyPagesReturned)
	fmt.Fprintf(bw, "Processes done: %d\n", r.ProcessesDone)
	return bw.Flush()
}

// WriteTextFile writes the results file at path.
func WriteTextFile(path string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	if err := WriteText(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing results file %s: %w", path, err)
	}
	return f.Close()
}
