package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Bin is one histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Bins groups values into n equal-width buckets between their min and max.
// NaN values are skipped. The last bucket includes its upper edge.
func Bins(values []float64, n int) []Bin {
	if n <= 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return nil
	}
	if lo == hi {
		count := 0
		for _, v := range values {
			if !math.IsNaN(v) {
				count++
			}
		}
		return []Bin{{Lo: lo, Hi: hi, Count: count}}
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// DrawHistogram renders a horizontal bar histogram of values with n buckets.
// The longest bar is width characters.
func DrawHistogram(title string, values []float64, n, width int) string {
	bins := Bins(values, n)
	if len(bins) == 0 {
		return fmt.Sprintf("\n  %s: no data\n", title)
	}
	peak := 0
	for _, b := range bins {
		peak = max(peak, b.Count)
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", strings.ToUpper(title)))
	sb.WriteString(fmt.Sprintf("  %s\n", strings.Repeat("─", len(title))))
	for _, b := range bins {
		bar := 0
		if peak > 0 {
			bar = int(math.Round(float64(b.Count) / float64(peak) * float64(width)))
		}
		sb.WriteString(fmt.Sprintf("  %12.4g │%-*s %d\n", b.Lo, width, strings.Repeat("█", bar), b.Count))
	}
	sb.WriteString(fmt.Sprintf("  %12.4g ┘\n", bins[len(bins)-1].Hi))
	return sb.String()
}

// RunningMean returns the mean of the first i+1 values at each index i.
// NaN values are carried over from the previous mean.
func RunningMean(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	sum, count := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			count++
		}
		if count == 0 {
			continue
		}
		out = append(out, sum/float64(count))
	}
	return out
}

// DrawConvergence plots the running mean of values so the user can see
// whether the sample count was large enough.
func DrawConvergence(title string, values []float64, height, width int) string {
	mean := RunningMean(values)
	if len(mean) == 0 {
		return fmt.Sprintf("\n  %s: no data\n", title)
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Precision(3),
		asciigraph.Caption(fmt.Sprintf("running mean of %s (n=%d)", title, len(mean))),
		asciigraph.Offset(4),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return "\n" + asciigraph.Plot(mean, opts...) + "\n"
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
