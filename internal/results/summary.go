package results

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of one column.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P05   float64
	P50   float64
	P95   float64
	Max   float64
}

// Summarize computes statistics over values. An empty input yields a zero
// Count and NaN statistics.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, P05: nan, P50: nan, P95: nan, Max: nan}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}
	return Summary{
		Count: len(sorted),
		Mean:  mean,
		Std:   std,
		Min:   floats.Min(sorted),
		P05:   stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
		Max:   floats.Max(sorted),
	}
}

// CoefficientOfVariation returns Std/Mean, or NaN when the mean is zero.
func (s Summary) CoefficientOfVariation() float64 {
	if s.Mean == 0 {
		return math.NaN()
	}
	return s.Std / math.Abs(s.Mean)
}
