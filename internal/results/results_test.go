package results

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	t := NewTable(Meta{RunID: "run-1", Seed: 42, Samples: 3, ModelPath: "tower.EDB", GeneratedAt: time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)}, []string{"Fc", "Live"})
	t.Append(Row{Index: 0, Inputs: map[string]float64{"Fc": 31.5, "Live": 1.1}, Metrics: Metrics{BaseShearX: 12.5, BaseShearY: 8.2, MaxDrift: 0.004, T1: 0.85, T2: 0.31}})
	t.Append(Row{Index: 1, Inputs: map[string]float64{"Fc": 28.25, "Live": 0.9}, Err: "analysis failed with status 1"})
	t.Append(Row{Index: 2, Inputs: map[string]float64{"Fc": 29, "Live": 1.0}, Metrics: Metrics{BaseShearX: 13, T1: 0.9}})
	return t
}

func TestTable_Header(t *testing.T) {
	tbl := sampleTable()
	assert.Equal(t, []string{"Sample", "BaseShear_X", "BaseShear_Y", "Max_Drift", "T1", "T2", "Fc", "Live", "Error"}, tbl.Header())
}

func TestTable_Records(t *testing.T) {
	recs := sampleTable().Records()
	require.Len(t, recs, 3)
	assert.Equal(t, []any{2, nil, nil, nil, nil, nil, 28.25, 0.9, "analysis failed with status 1"}, recs[1])
	assert.Equal(t, []any{3, 13.0, nil, nil, 0.9, nil, 29.0, 1.0, nil}, recs[2])
}

func TestSampleTable_HasNoMetricColumns(t *testing.T) {
	tbl := NewSampleTable(Meta{Seed: 42}, []string{"Fc", "Fy"})
	tbl.Append(Row{Index: 0, Inputs: map[string]float64{"Fc": 30, "Fy": 410}})
	assert.Equal(t, []string{"Sample", "Fc", "Fy", "Error"}, tbl.Header())
	assert.Equal(t, [][]any{{1, 30.0, 410.0, nil}}, tbl.Records())
}

func TestTable_AppendCopies(t *testing.T) {
	tbl := NewTable(Meta{}, []string{"Fc"})
	inputs := map[string]float64{"Fc": 30}
	metrics := Metrics{T1: 1}
	tbl.Append(Row{Inputs: inputs, Metrics: metrics})
	inputs["Fc"] = 99
	metrics[T1] = 99

	row := tbl.Rows()[0]
	assert.Equal(t, 30.0, row.Inputs["Fc"])
	assert.Equal(t, 1.0, row.Metrics[T1])
	assert.Equal(t, map[string]float64{"Fc": 30, T1: 1}, row.Values())
}

func TestTable_RowsAreCopies(t *testing.T) {
	tbl := NewTable(Meta{}, []string{"Fc"})
	tbl.Append(Row{Inputs: map[string]float64{"Fc": 30}, Metrics: Metrics{T1: 0.85}})

	rows := tbl.Rows()
	rows[0].Metrics[T1] = 999
	rows[0].Inputs["Fc"] = -1

	assert.Equal(t, []float64{0.85}, tbl.Column(T1))
	assert.Equal(t, []float64{30}, tbl.Column("Fc"))
}

func TestTable_ColumnAndFailures(t *testing.T) {
	tbl := sampleTable()
	assert.Equal(t, []float64{12.5, 13}, tbl.Column(BaseShearX))
	assert.Equal(t, []float64{31.5, 28.25, 29}, tbl.Column("Fc"))
	assert.Equal(t, 1, tbl.Failures())
}

func TestWriters_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatXLSX, FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "results."+string(format))
			w, err := NewWriter(format, path)
			require.NoError(t, err)
			assert.Equal(t, path, w.Path())

			require.NoError(t, w.Write(sampleTable()))

			ds, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 3, ds.Rows)
			assert.Equal(t, 1, ds.Failures)
			assert.Equal(t, []float64{12.5, 13}, ds.Values[BaseShearX])
			assert.Equal(t, []float64{0.85, 0.9}, ds.Values[T1])
			assert.Equal(t, []float64{31.5, 28.25, 29}, ds.Values["Fc"])
			assert.NotContains(t, ds.Values, SampleColumn)
			assert.Equal(t, []string{"BaseShear_X", "BaseShear_Y", "Max_Drift", "T1", "T2", "Fc", "Live"}, ds.NumericColumns())
		})
	}
}

func TestWriter_OverwritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")
	w, err := NewWriter(FormatCSV, path)
	require.NoError(t, err)

	tbl := NewTable(Meta{}, []string{"Fc"})
	require.NoError(t, w.Write(tbl))
	tbl.Append(Row{Index: 0, Inputs: map[string]float64{"Fc": 30}})
	require.NoError(t, w.Write(tbl))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Rows)
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 5, 0, 0, time.Local)
	assert.Equal(t, "MonteCarlo_Results_20261018_0905.xlsx", FileName("", ts, ""))
	assert.Equal(t, "tower_20261018_0905.csv", FileName("tower", ts, FormatCSV))
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MonteCarlo_Results_20260102_1504.xlsx")
	assert.Equal(t, path, UniquePath(path))

	require.NoError(t, os.WriteFile(path, []byte("first run"), 0o644))
	second := UniquePath(path)
	assert.Equal(t, filepath.Join(dir, "MonteCarlo_Results_20260102_1504_2.xlsx"), second)

	require.NoError(t, os.WriteFile(second, []byte("second run"), 0o644))
	assert.Equal(t, filepath.Join(dir, "MonteCarlo_Results_20260102_1504_3.xlsx"), UniquePath(path))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("results.json")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{5, 1, 4, 2, 3})
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.P50)
	assert.InDelta(t, math.Sqrt(2.5)/3, s.CoefficientOfVariation(), 1e-12)

	one := Summarize([]float64{7})
	assert.Zero(t, one.Std)

	empty := Summarize(nil)
	assert.Zero(t, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}
