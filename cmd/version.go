package cmd

import (
	"fmt"
	"runtime"

	"github.com/alexiusacademia/etabsmc/internal/etabs"
	"github.com/alexiusacademia/etabsmc/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of etabsmc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("etabsmc v%s\n", version.String())
		fmt.Println("Monte Carlo Batch Analysis for ETABS")
		fmt.Printf("Platform: %s/%s, automation server: %s\n", runtime.GOOS, runtime.GOARCH, etabs.DefaultProgID)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
