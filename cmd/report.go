package cmd

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/alexiusacademia/etabsmc/internal/diagram"
	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/spf13/cobra"
)

var (
	reportBins      int
	reportAll       bool
	reportNoCharts  bool
	reportExportDir string
)

var reportCmd = &cobra.Command{
	Use:   "report <results-file>",
	Short: "Summarize and plot a saved results file",
	Long: `Load a results file written by 'etabsmc run' (xlsx or csv) and print
descriptive statistics of every metric, an ASCII histogram and a
running-mean chart showing whether the sample count was large enough.

Examples:
  etabsmc report MonteCarlo_Results_20260102_1504.xlsx
  etabsmc report results.csv --all --bins 20
  etabsmc report results.xlsx --export plots`,
	Args: cobra.ExactArgs(1),
	Run:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportBins, "bins", 0, "Histogram bins (default chosen from the sample count)")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "Include the sampled input columns, not only the metrics")
	reportCmd.Flags().BoolVar(&reportNoCharts, "no-charts", false, "Print statistics only")
	reportCmd.Flags().StringVarP(&reportExportDir, "export", "e", "", "Export PNG histograms and convergence plots to this directory")
}

func runReport(cmd *cobra.Command, args []string) {
	s, err := loadSettings(cmd)
	if err != nil {
		printError("loading configuration", err)
		return
	}
	_, cleanup := setupLogger(s)
	defer cleanup()

	ds, err := results.Load(args[0])
	if err != nil {
		printError("loading results", err)
		return
	}

	columns := ds.NumericColumns()
	if !reportAll {
		columns = slices.DeleteFunc(columns, func(c string) bool {
			return !slices.Contains(results.MetricNames, c)
		})
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     MONTE CARLO RESULTS REPORT")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	w := newTable()
	fmt.Fprintf(w, "  File:\t%s\n", args[0])
	fmt.Fprintf(w, "  Samples:\t%d\n", ds.Rows)
	fmt.Fprintf(w, "  Failed samples:\t%d\n", ds.Failures)
	w.Flush()

	if len(columns) == 0 {
		fmt.Println()
		fmt.Println("  No numeric results to summarize.")
		fmt.Println()
		return
	}
	column := func(name string) []float64 { return ds.Values[name] }
	printSummary("STATISTICS:", columns, column)

	for _, name := range columns {
		values := column(name)
		bins := reportBins
		if bins <= 0 {
			bins = histogramBins(len(values))
		}
		if !reportNoCharts {
			fmt.Print(diagram.DrawHistogram(name, values, bins, 40))
			fmt.Print(diagram.DrawConvergence(name, values, 8, 60))
		}
		if reportExportDir != "" {
			hist := filepath.Join(reportExportDir, name+"_hist.png")
			if err := diagram.ExportHistogram(name, values, bins, hist); err != nil {
				printError("exporting "+name+" histogram", err)
				continue
			}
			conv := filepath.Join(reportExportDir, name+"_mean.png")
			if err := diagram.ExportConvergence(name, values, conv); err != nil {
				printError("exporting "+name+" convergence plot", err)
				continue
			}
			fmt.Printf("\n  Plots exported to: %s, %s\n", hist, conv)
		}
	}
	fmt.Println()
}
