package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexiusacademia/etabsmc/internal/config"
	"github.com/alexiusacademia/etabsmc/internal/logging"
	"github.com/alexiusacademia/etabsmc/internal/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
	seqURL     string
)

var rootCmd = &cobra.Command{
	Use:   "etabsmc",
	Short: "Monte Carlo batch analysis driver for ETABS",
	Long: `etabsmc - Monte Carlo batch analysis for ETABS

A CLI tool that drives ETABS through its automation interface to run
repeated structural analyses with randomized material strengths and
load factors, and collects base shear, story drift and modal periods
into a spreadsheet.

This tool helps structural engineers:
  - Generate reproducible random samples of Fc, Fy and load multipliers
  - Apply each sample to an ETABS model and run the analysis
  - Checkpoint the results so long runs survive interruptions
  - Summarize and plot the distribution of the results

Configuration is read from an HCL file (--config), a .env file and
ETABSMC_* environment variables; command flags take precedence.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   etabsmc v%-47s║\n", version.Version)
		fmt.Println("  ║   Monte Carlo Batch Analysis for ETABS                    ║")
		fmt.Printf("  ║   %s ©  %-36s║\n", version.Author, version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Drives ETABS through its automation interface to run repeated")
		fmt.Println("  analyses with randomized material and load parameters.")
		fmt.Println()
		fmt.Println("  Commands:")
		fmt.Println("    • run      Run a Monte Carlo batch against an ETABS model")
		fmt.Println("    • sample   Generate the random sample table without ETABS")
		fmt.Println("    • report   Summarize and plot a saved results file")
		fmt.Println()
		fmt.Println("  Use 'etabsmc --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to an HCL configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&seqURL, "seq-url", "", "Ship logs to a Seq server at this URL")
}

// loadSettings resolves defaults, .env, the config file, the environment and
// the global flags, in that order of precedence (last wins).
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	s, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		s.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		s.Log.Format = logFormat
	}
	if flags.Changed("seq-url") {
		s.Log.SeqURL = seqURL
	}
	return s, nil
}

// setupLogger installs the configured logger as the slog default. Logs go to
// stderr so they never interleave with tables on stdout.
func setupLogger(s *config.Settings) (*slog.Logger, func()) {
	logger, cleanup := logging.Setup(os.Stderr, s.Log)
	slog.SetDefault(logger)
	return logger, cleanup
}

var errPrefix = color.New(color.FgRed, color.Bold)

func printError(format string, err error) {
	errPrefix.Print("Error: ")
	fmt.Printf(format+": %v\n", err)
}
