package cmd

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/alexiusacademia/etabsmc/internal/results"
	"github.com/alexiusacademia/etabsmc/internal/sampler"
	"github.com/fatih/color"
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

// progressPrinter prints one line per finished sample.
type progressPrinter struct {
	names   []string
	ok      *color.Color
	partial *color.Color
	failed  *color.Color
}

func newProgressPrinter(vars []sampler.RandomVariableSpec) *progressPrinter {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	return &progressPrinter{
		names:   names,
		ok:      color.New(color.FgGreen),
		partial: color.New(color.FgYellow),
		failed:  color.New(color.FgRed),
	}
}

func (p *progressPrinter) print(row results.Row, total int) {
	width := len(strconv.Itoa(total))
	fmt.Printf("  [%*d/%d]", width, row.Index+1, total)
	for _, n := range p.names {
		if v, ok := row.Inputs[n]; ok {
			fmt.Printf("  %s=%.3f", n, v)
		}
	}
	switch {
	case !row.Failed():
		p.ok.Println("  ok")
	case len(row.Metrics) > 0:
		p.partial.Printf("  partial: %s\n", row.Err)
	default:
		p.failed.Printf("  failed: %s\n", row.Err)
	}
}

// printSummary prints descriptive statistics for each named column that has
// values. Columns without values are skipped.
func printSummary(title string, names []string, column func(string) []float64) {
	fmt.Println()
	fmt.Println(title)
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := newTable()
	fmt.Fprintf(w, "  Column\tCount\tMean\tStd\tCoV\tMin\tP05\tP50\tP95\tMax\n")
	fmt.Fprintf(w, "  ──────\t─────\t────\t───\t───\t───\t───\t───\t───\t───\n")
	for _, name := range names {
		values := column(name)
		if len(values) == 0 {
			continue
		}
		s := results.Summarize(values)
		fmt.Fprintf(w, "  %s\t%d\t%.4g\t%.4g\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			name, s.Count, s.Mean, s.Std, formatRatio(s.CoefficientOfVariation()),
			s.Min, s.P05, s.P50, s.P95, s.Max)
	}
	w.Flush()
	fmt.Println()
}

func printMetricSummary(table *results.Table) {
	printSummary("RESULT SUMMARY:", results.MetricNames, table.Column)
}

func formatRatio(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// histogramBins picks a bin count by Sturges' rule, kept between 5 and 30.
func histogramBins(n int) int {
	if n <= 1 {
		return 5
	}
	bins := int(math.Ceil(math.Log2(float64(n)))) + 1
	return min(max(bins, 5), 30)
}
