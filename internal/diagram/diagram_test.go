package diagram

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBins(t *testing.T) {
	bins := Bins([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, math.NaN()}, 5)
	require.Len(t, bins, 5)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 11, total)
	assert.Equal(t, 0.0, bins[0].Lo)
	assert.Equal(t, 10.0, bins[4].Hi)
	assert.Equal(t, 3, bins[4].Count, "upper edge belongs to the last bin")
}

func TestBinsDegenerate(t *testing.T) {
	assert.Nil(t, Bins(nil, 5))
	assert.Nil(t, Bins([]float64{1, 2}, 0))
	assert.Nil(t, Bins([]float64{math.NaN()}, 3))

	bins := Bins([]float64{4, 4, 4}, 10)
	require.Len(t, bins, 1)
	assert.Equal(t, 3, bins[0].Count)
}

func TestRunningMean(t *testing.T) {
	got := RunningMean([]float64{2, 4, math.NaN(), 6})
	assert.InDeltaSlice(t, []float64{2, 3, 3, 4}, got, 1e-12)
	assert.Empty(t, RunningMean([]float64{math.NaN()}))
}

func TestDrawHistogram(t *testing.T) {
	out := DrawHistogram("Max_Drift", []float64{1, 1, 1, 2, 3}, 2, 10)
	assert.Contains(t, out, "MAX_DRIFT")
	assert.Contains(t, out, strings.Repeat("█", 10)+" 3")
	assert.Contains(t, DrawHistogram("T1", nil, 5, 10), "no data")
}

func TestDrawConvergence(t *testing.T) {
	out := DrawConvergence("T1", []float64{1, 2, 3, 4}, 5, 20)
	assert.Contains(t, out, "running mean of T1 (n=4)")
	assert.Contains(t, DrawConvergence("T1", nil, 5, 20), "no data")
}

func TestDrawSummaryBox(t *testing.T) {
	body := []string{"Samples: 10", "Failures: 0"}
	out := DrawSummaryBox("RUN COMPLETE", body)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top border, title, separator, body, bottom border
	require.Len(t, lines, len(body)+4)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), l)
	}
}

func TestExportHistogram(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plots", "BaseShear_X.png")
	require.NoError(t, ExportHistogram("BaseShear_X", []float64{1, 2, 2, 3, 3, 3, 4}, 4, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, ExportHistogram("empty", []float64{math.NaN()}, 4, path))
}

func TestExportConvergenceAppendsExtension(t *testing.T) {
	base := filepath.Join(t.TempDir(), "T1_mean")
	require.NoError(t, ExportConvergence("T1", []float64{0.5, 0.6, 0.55}, base))
	_, err := os.Stat(base + ".png")
	assert.NoError(t, err)
}
