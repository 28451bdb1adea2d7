package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/pagesim/pagesim/sim"
	"github.com/pagesim/pagesim/sim/report"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgWhite)
	valueColor  = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow, color.Bold)
)

func disableColor() {
	color.NoColor = true
}

type summaryRow struct {
	label string
	value any
}

// printSummary writes the totals of r as an aligned, coloured table.
func printSummary(w io.Writer, r *report.Report, elapsed time.Duration) {
	headerColor.Fprintf(w, "=== Simulation Summary (%s) ===\n", r.Policy)

	rows := []summaryRow{
		{"Run ID", r.RunID},
		{"Seed", r.Seed},
		{"Total cycles", r.Clock},
		{"Ticks", r.Ticks},
		{"Processes created", r.ProcessesCreated},
		{"Processes done", r.ProcessesDone},
		{"Total instructions", r.TotalInstructions},
		{"Total waits", r.TotalWaits},
		{"Mean instructions", fmt.Sprintf("%.1f", r.MeanInstructions)},
		{"Wait fraction", fmt.Sprintf("%.2f%%", 100*r.WaitFraction)},
		{"Free pages returned", r.Evictions.FreePagesReturned},
		{"Clean pages returned", r.Evictions.CleanPagesReturned},
		{"Dirty pages returned", r.Evictions.DirtyPagesReturned},
	}
	if r.Trace != nil {
		rows = append(rows, summaryRow{"Traced evictions", r.Trace.TotalEvictions})
	}
	for _, row := range rows {
		labelColor.Fprintf(w, "%-22s", row.label+":")
		valueColor.Fprintf(w, "%v\n", row.value)
	}
	fmt.Fprintf(w, "%-22s%.3fs\n", "Wall time:", elapsed.Seconds())

	if r.Stop != sim.StopCompleted {
		warnColor.Fprintf(w, "Run stopped early (%s): %d/%d processes done\n",
			r.Stop, r.ProcessesDone, r.Config.ProcessesToDo)
	}
}
