package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexiusacademia/etabsmc/internal/diagram"
	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/alexiusacademia/etabsmc/internal/version"
	"github.com/spf13/cobra"
)

var (
	sampleCount     int
	sampleSeed      uint64
	sampleFormat    string
	sampleOutput    string
	sampleHistogram bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate the random sample table without running ETABS",
	Long: `Generate the random input samples exactly as 'etabsmc run' would
for the same seed and variables, print their statistics and save them.

Use this to check the distributions before starting a long batch.

Examples:
  etabsmc sample
  etabsmc sample -n 5000 --seed 7 --histogram
  etabsmc sample -c study.hcl -o samples.csv`,
	Run: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().IntVarP(&sampleCount, "samples", "n", 1000, "Number of samples")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 42, "Random seed")
	sampleCmd.Flags().StringVar(&sampleFormat, "format", "xlsx", "File format: xlsx or csv")
	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "Output file (default MonteCarlo_Samples_YYYYMMDD_HHMM.<format>)")
	sampleCmd.Flags().BoolVar(&sampleHistogram, "histogram", false, "Show an ASCII histogram of every variable")
}

func runSample(cmd *cobra.Command, args []string) {
	s, err := loadSettings(cmd)
	if err != nil {
		printError("loading configuration", err)
		return
	}
	_, cleanup := setupLogger(s)
	defer cleanup()

	if cmd.Flags().Changed("samples") {
		s.Batch.Samples = sampleCount
	}
	if cmd.Flags().Changed("seed") {
		s.Batch.Seed = sampleSeed
	}
	format := s.Output.Format
	if cmd.Flags().Changed("format") {
		if format, err = results.ParseFormat(sampleFormat); err != nil {
			printError("invalid option", err)
			return
		}
	}

	samples, err := sampler.Generate(s.Batch.Variables, s.Batch.Samples, s.Batch.Seed)
	if err != nil {
		printError("generating samples", err)
		return
	}

	path := sampleOutput
	if path == "" {
		path = results.UniquePath(filepath.Join(s.Output.Dir, results.FileName("MonteCarlo_Samples", time.Now(), format)))
	} else if ext := filepath.Ext(path); ext != "" {
		if format, err = results.ParseFormat(ext); err != nil {
			printError("invalid option", err)
			return
		}
	}

	table := results.NewSampleTable(results.Meta{
		Seed:        s.Batch.Seed,
		Samples:     samples.Len(),
		Version:     version.Version,
		GeneratedAt: time.Now(),
	}, samples.Columns)
	for i, row := range samples.Rows {
		table.Append(results.Row{Index: i, Inputs: row})
	}

	writer, err := results.NewWriter(format, path)
	if err != nil {
		printError("creating writer", err)
		return
	}
	if err := writer.Write(table); err != nil {
		printError("saving samples", err)
		return
	}

	printSummary(fmt.Sprintf("SAMPLE STATISTICS (n=%d, seed=%d):", samples.Len(), s.Batch.Seed), samples.Columns, samples.Column)
	if sampleHistogram {
		for _, name := range samples.Columns {
			values := samples.Column(name)
			fmt.Print(diagram.DrawHistogram(name, values, histogramBins(len(values)), 40))
		}
		fmt.Println()
	}
	fmt.Printf("  Samples saved to: %s\n\n", writer.Path())
}
