package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
	"gopkg.in/yaml.v3"

	"github.com/pagesim/pagesim/monitoring"
	"github.com/pagesim/pagesim/sim"
	"github.com/pagesim/pagesim/sim/report"
	"github.com/pagesim/pagesim/sim/trace"

	// Registers the replacement policies with sim.
	_ "github.com/pagesim/pagesim/sim/replacement"
)

// autoDBName is the --db value used when the flag is given without a path.
const autoDBName = "auto"

var (
	// CLI flags for the run command
	configPath  string // Config file (.yaml/.yml or key=value properties)
	seed        int64  // Master RNG seed
	policy      string // Replacement policy name
	maxTicks    int64  // Tick horizon (0 = until all processes are done)
	logLevel    string // Log verbosity level
	resultsPath string // Text results file
	jsonPath    string // JSON report file
	dbPath      string // SQLite database file
	traceLevel  string // Trace verbosity: none, events

	// CLI flags for the monitoring server
	monitorEnabled bool // Serve snapshots over HTTP during the run
	monitorPort    int  // Port for the monitoring server (0 = any)
	openBrowser    bool // Open the monitoring URL in a browser
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "pagesim",
	Short: "Virtual memory and process timing simulator",
}

// runCmd executes a simulation using the config file and CLI overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the page replacement simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadRunConfig(configPath, cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		opts := runOptions{
			ResultsPath: resultsPath,
			JSONPath:    jsonPath,
			TraceLevel:  trace.TraceLevel(traceLevel),
		}
		if cmd.Flags().Changed("db") {
			opts.DBPath = dbPath
			opts.WriteDB = true
		}
		if monitorEnabled {
			opts.Monitor = monitoring.NewMonitor().WithPortNumber(monitorPort)
			opts.OpenBrowser = openBrowser
		}

		startTime := time.Now()
		r, err := runSimulation(cfg, opts)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		printSummary(cmd.OutOrStdout(), r, time.Since(startTime))
		logrus.Info("Simulation complete.")
	},
}

// configCmd prints the default configuration as YAML
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaultConfig(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Cannot encode default configuration: %v", err)
		}
	},
}

// policiesCmd lists the replacement policies
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the page replacement policies",
	Run: func(cmd *cobra.Command, args []string) {
		writePolicies(cmd.OutOrStdout())
	},
}

// runOptions selects the outputs of a run.
type runOptions struct {
	ResultsPath string // empty: results_<policy>.txt
	JSONPath    string // empty: no JSON report
	WriteDB     bool
	DBPath      string // empty or autoDBName: generated name
	TraceLevel  trace.TraceLevel
	Monitor     *monitoring.Monitor
	OpenBrowser bool
}

// loadRunConfig reads the config file, or starts from the defaults when no
// file is given, then applies the flags the user set explicitly.
func loadRunConfig(path string, flags *pflag.FlagSet) (*sim.Config, error) {
	cfg := sim.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = sim.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("policy") {
		cfg.ReplacementPolicy = policy
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = maxTicks
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runSimulation runs cfg to completion and writes the requested outputs.
func runSimulation(cfg *sim.Config, opts runOptions) (*report.Report, error) {
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
	s, err := sim.NewSimulator(cfg, tr)
	if err != nil {
		return nil, err
	}

	if opts.Monitor != nil {
		url, err := opts.Monitor.StartServer()
		if err != nil {
			return nil, err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := opts.Monitor.Shutdown(ctx); err != nil {
				logrus.Warnf("stopping monitor: %v", err)
			}
		}()
		if opts.OpenBrowser {
			if err := opts.Monitor.OpenBrowser(url); err != nil {
				logrus.Warnf("cannot open browser: %v", err)
			}
		}
		s.SetObserver(opts.Monitor)
	}

	if err := s.Run(); err != nil {
		return nil, err
	}
	if err := s.Scheduler.CheckInvariants(); err != nil {
		return nil, err
	}

	r := report.New(s)
	results := opts.ResultsPath
	if results == "" {
		results = report.DefaultTextPath(r.Policy)
	}
	if err := report.WriteTextFile(results, r); err != nil {
		return nil, err
	}
	logrus.Infof("Results written to %s", results)

	if opts.JSONPath != "" {
		if err := report.WriteJSONFile(opts.JSONPath, r); err != nil {
			return nil, err
		}
		logrus.Infof("Report written to %s", opts.JSONPath)
	}

	if opts.WriteDB {
		path := opts.DBPath
		if path == autoDBName {
			path = ""
		}
		w, err := report.NewSQLiteWriter(path)
		if err != nil {
			return nil, err
		}
		w.Write(r)
		if err := w.Close(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func writeDefaultConfig(w io.Writer) error {
	data, err := yaml.Marshal(sim.DefaultConfig())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writePolicies(w io.Writer) {
	for _, name := range sim.ReplacementPolicyNames() {
		if name == sim.DefaultReplacementPolicy {
			fmt.Fprintf(w, "%s (default)\n", name)
			continue
		}
		fmt.Fprintln(w, name)
	}
}

// Execute runs the CLI root command. Exit paths, including logrus fatals,
// go through atexit so pending database writes are flushed.
func Execute() {
	logrus.RegisterExitHandler(func() { atexit.Exit(1) })
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// registerRunFlags binds the run flags to fs.
func registerRunFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configPath, "config", "", "Config file (.yaml, .yml, or key=value properties); defaults are used when empty")
	fs.Int64Var(&seed, "seed", 42, "Seed for all random draws")
	fs.StringVar(&policy, "policy", sim.DefaultReplacementPolicy, "Page replacement policy (random, nru, clock)")
	fs.Int64Var(&maxTicks, "max-ticks", 0, "Stop after this many ticks (0 = run until all processes are done)")
	fs.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Outputs
	fs.StringVar(&resultsPath, "results", "", "Text results file (default results_<policy>.txt)")
	fs.StringVar(&jsonPath, "json", "", "Write the report as JSON to this file")
	fs.StringVar(&dbPath, "db", "", "Write the report to a new SQLite database (no value: generated name)")
	fs.Lookup("db").NoOptDefVal = autoDBName
	fs.StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, events)")

	// Monitoring
	fs.BoolVar(&monitorEnabled, "monitor", false, "Serve run snapshots over HTTP")
	fs.IntVar(&monitorPort, "monitor-port", 0, "Port for the monitoring server (0 = any free port)")
	fs.BoolVar(&openBrowser, "open-browser", false, "Open the monitoring page in a browser")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd.Flags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(policiesCmd)
}
