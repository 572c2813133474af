package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alexiusacademia/etabsmc/internal/batch"
	"github.com/alexiusacademia/etabsmc/internal/config"
	"github.com/alexiusacademia/etabsmc/internal/console"
	"github.com/alexiusacademia/etabsmc/internal/ctxlog"
	"github.com/alexiusacademia/etabsmc/internal/diagram"
	"github.com/alexiusacademia/etabsmc/internal/etabs"
	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/session"
	"github.com/alexiusacademia/etabsmc/internal/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	runModel      string
	runSamples    int
	runSeed       uint64
	runCheckpoint int
	runFormat     string
	runOutputDir  string
	runConnect    string
	runProgramID  string
	runHidden     bool
	runTerminate  bool
	runPlots      bool
)

var (
	// newFactory builds the application factory for an automation ProgID.
	newFactory = func(progID string) session.Factory { return etabs.NewFactory(progID) }
	// stdin feeds the interactive prompts.
	stdin io.Reader = os.Stdin
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a Monte Carlo batch against an ETABS model",
	Long: `Run a Monte Carlo batch: generate the random samples, then for each
sample set the material properties and load combination factors of the
model, run the analysis and record base shear, maximum story drift and
the first two modal periods.

Results are written to MonteCarlo_Results_YYYYMMDD_HHMM.xlsx in the
output directory every --checkpoint samples and when the batch ends.
Press Ctrl+C to stop early; the samples finished so far are saved.

Without any flags the command asks for the model path and the number
of samples, and waits for Enter before exiting.

Examples:
  etabsmc run
  etabsmc run --model C:\Models\Tower.EDB --samples 500
  etabsmc run -c study.hcl --connect launch --hidden --terminate
  etabsmc run -m tower.EDB -n 200 --format csv -o results --plots`,
	Run: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "Path to the ETABS model (.EDB)")
	runCmd.Flags().IntVarP(&runSamples, "samples", "n", 1000, "Number of Monte Carlo samples")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 42, "Random seed")
	runCmd.Flags().IntVar(&runCheckpoint, "checkpoint", batch.DefaultCheckpointInterval, "Save results every N samples")

	// Output options
	runCmd.Flags().StringVar(&runFormat, "format", "xlsx", "Results format: xlsx or csv")
	runCmd.Flags().StringVarP(&runOutputDir, "output-dir", "o", ".", "Directory for the results file")
	runCmd.Flags().BoolVar(&runPlots, "plots", false, "Export PNG histograms of every metric")

	// Connection options
	runCmd.Flags().StringVar(&runConnect, "connect", "auto", "How to reach ETABS: auto, attach or launch")
	runCmd.Flags().StringVar(&runProgramID, "program-id", etabs.DefaultProgID, "Automation ProgID of ETABS")
	runCmd.Flags().BoolVar(&runHidden, "hidden", false, "Keep a launched ETABS window hidden")
	runCmd.Flags().BoolVar(&runTerminate, "terminate", false, "Close ETABS when the batch ends")
}

func runRun(cmd *cobra.Command, args []string) {
	interactive := !anyFlagSet(cmd)
	prompt := console.New(stdin, os.Stdout)
	if interactive {
		defer prompt.Pause("\nPress Enter to exit...")
	}

	s, err := loadSettings(cmd)
	if err != nil {
		printError("loading configuration", err)
		return
	}
	if err := applyRunFlags(cmd, s); err != nil {
		printError("invalid option", err)
		return
	}

	logger, cleanup := setupLogger(s)
	defer cleanup()

	if interactive {
		if err := promptRun(prompt, s); err != nil {
			printError("reading input", err)
			return
		}
	}
	if s.Batch.ModelPath == "" {
		printError("invalid option", errors.New("no model path given (use --model)"))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	outPath := results.UniquePath(filepath.Join(s.Output.Dir, results.FileName(s.Output.Prefix, time.Now(), s.Output.Format)))
	writer, err := results.NewWriter(s.Output.Format, outPath)
	if err != nil {
		printError("creating results writer", err)
		return
	}

	progress := newProgressPrinter(s.Batch.Variables)
	orch, err := batch.New(s.Batch, newFactory(s.ProgramID), writer,
		batch.WithObserver(progress.print),
		batch.WithVersion(version.Version),
	)
	if err != nil {
		printError("invalid configuration", err)
		return
	}

	printRunHeader(s, outPath, orch.RunID())
	started := time.Now()
	table, runErr := orch.Run(ctx)

	if table != nil {
		printMetricSummary(table)
		if s.Output.Plots && table.Len() > 0 {
			exportRunPlots(table, outPath)
		}
		printRunFooter(table, writer.Path(), orch.State(), time.Since(started))
	}

	if runErr != nil {
		var connErr *session.ConnectionError
		switch {
		case errors.As(runErr, &connErr):
			printError("could not reach ETABS", runErr)
		case errors.Is(runErr, session.ErrFileNotFound), errors.Is(runErr, session.ErrOpenFailed):
			printError("could not open model", runErr)
		case errors.Is(runErr, context.Canceled):
			printError("batch interrupted", runErr)
		default:
			printError("batch failed", runErr)
		}
	}
}

// anyFlagSet reports whether the user passed any flag, local or global.
func anyFlagSet(cmd *cobra.Command) bool {
	set := false
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		set = set || f.Changed
	})
	return set
}

// applyRunFlags overlays the flags the user actually set.
func applyRunFlags(cmd *cobra.Command, s *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("model") {
		s.Batch.ModelPath = runModel
	}
	if flags.Changed("samples") {
		s.Batch.Samples = runSamples
	}
	if flags.Changed("seed") {
		s.Batch.Seed = runSeed
	}
	if flags.Changed("checkpoint") {
		s.Batch.CheckpointInterval = runCheckpoint
	}
	if flags.Changed("format") {
		f, err := results.ParseFormat(runFormat)
		if err != nil {
			return err
		}
		s.Output.Format = f
	}
	if flags.Changed("output-dir") {
		s.Output.Dir = runOutputDir
	}
	if flags.Changed("plots") {
		s.Output.Plots = runPlots
	}
	if flags.Changed("connect") {
		st, err := session.ParseStrategy(runConnect)
		if err != nil {
			return err
		}
		s.Batch.Connection.Strategy = st
	}
	if flags.Changed("program-id") {
		s.ProgramID = runProgramID
	}
	if flags.Changed("hidden") {
		s.Batch.Connection.Visible = !runHidden
	}
	if flags.Changed("terminate") {
		s.Batch.TerminateOnClose = runTerminate
	}
	return nil
}

func promptRun(p *console.Prompter, s *config.Settings) error {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     ETABS MONTE CARLO SIMULATION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	model, err := p.String("Path to ETABS model (.EDB)", s.Batch.ModelPath)
	if err != nil {
		return err
	}
	s.Batch.ModelPath = model

	n, err := p.Int("Number of samples", s.Batch.Samples)
	if err != nil {
		return err
	}
	s.Batch.Samples = n
	return nil
}

func printRunHeader(s *config.Settings, outPath, runID string) {
	fmt.Println()
	fmt.Println("RUN SETTINGS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := newTable()
	fmt.Fprintf(w, "  Model:\t%s\n", s.Batch.ModelPath)
	fmt.Fprintf(w, "  Samples:\t%d\n", s.Batch.Samples)
	fmt.Fprintf(w, "  Seed:\t%d\n", s.Batch.Seed)
	fmt.Fprintf(w, "  Checkpoint every:\t%d samples\n", s.Batch.CheckpointInterval)
	fmt.Fprintf(w, "  Connection:\t%s\n", s.Batch.Connection.Strategy)
	fmt.Fprintf(w, "  Results file:\t%s\n", outPath)
	fmt.Fprintf(w, "  Run ID:\t%s\n", runID)
	w.Flush()
	fmt.Println()

	fmt.Println("RANDOM VARIABLES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = newTable()
	fmt.Fprintf(w, "  Name\tDistribution\tMean\tStd\n")
	fmt.Fprintf(w, "  ────\t────────────\t────\t───\n")
	for _, v := range s.Batch.Variables {
		fmt.Fprintf(w, "  %s\t%s\t%g\t%g\n", v.Name, v.Distribution, v.Mean, v.Std)
	}
	w.Flush()
	fmt.Println()
}

func printRunFooter(table *results.Table, path string, state batch.State, elapsed time.Duration) {
	status := "COMPLETED"
	if state == batch.Aborted {
		status = "ABORTED"
	}
	lines := []string{
		fmt.Sprintf("Samples analyzed: %d of %d", table.Len(), table.Meta.Samples),
		fmt.Sprintf("Failed samples:   %d", table.Failures()),
		fmt.Sprintf("Elapsed:          %s", elapsed.Round(time.Second)),
		fmt.Sprintf("Results:          %s", path),
	}
	box := diagram.DrawSummaryBox("MONTE CARLO RUN "+status, lines)
	if state == batch.Aborted {
		color.New(color.FgYellow).Print(box)
	} else {
		color.New(color.FgGreen).Print(box)
	}
	fmt.Println()
}

func exportRunPlots(table *results.Table, outPath string) {
	dir := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_plots"
	for _, m := range results.MetricNames {
		values := table.Column(m)
		if len(values) == 0 {
			continue
		}
		file := filepath.Join(dir, m+".png")
		if err := diagram.ExportHistogram(m, values, histogramBins(len(values)), file); err != nil {
			printError("exporting "+m+" histogram", err)
			continue
		}
		fmt.Printf("  Histogram exported to: %s\n", file)
	}
}
