// Package results holds the append-only result table of a batch and
// persists it as a spreadsheet or CSV snapshot.
package results

import (
	"slices"
	"time"
)

// Metric names extracted after each analysis pass.
const (
	BaseShearX = "BaseShear_X"
	BaseShearY = "BaseShear_Y"
	MaxDrift   = "Max_Drift"
	T1         = "T1"
	T2         = "T2"
)

// MetricNames lists the extracted metrics in column order.
var MetricNames = []string{BaseShearX, BaseShearY, MaxDrift, T1, T2}

// Fixed column headers around the metric and input columns.
const (
	SampleColumn = "Sample"
	ErrorColumn  = "Error"
)

// Metrics maps a metric name to its value. Unavailable metrics are absent.
type Metrics map[string]float64

// Row is the outcome of one sample. Inputs are the sampled values that
// produced it; Err is the per-row failure, empty when the row succeeded.
type Row struct {
	Index   int
	Inputs  map[string]float64
	Metrics Metrics
	Err     string
}

// Values merges metrics and inputs into one mapping.
func (r Row) Values() map[string]float64 {
	out := make(map[string]float64, len(r.Metrics)+len(r.Inputs))
	for k, v := range r.Metrics {
		out[k] = v
	}
	for k, v := range r.Inputs {
		out[k] = v
	}
	return out
}

// Failed reports whether the row recorded a failure.
func (r Row) Failed() bool {
	return r.Err != ""
}

// Meta describes the run that produced a table.
type Meta struct {
	RunID       string
	ModelPath   string
	Seed        uint64
	Samples     int
	Version     string
	GeneratedAt time.Time
}

// Table is an append-only sequence of rows.
type Table struct {
	Meta    Meta
	metrics []string
	inputs  []string
	rows    []Row
}

// NewTable returns an empty table whose input columns follow inputs.
func NewTable(meta Meta, inputs []string) *Table {
	return &Table{Meta: meta, metrics: MetricNames, inputs: slices.Clone(inputs)}
}

// NewSampleTable returns a table with input columns only, for sample sets
// that were never analyzed.
func NewSampleTable(meta Meta, inputs []string) *Table {
	return &Table{Meta: meta, inputs: slices.Clone(inputs)}
}

// Append adds a row. Rows are copied so later changes by the caller
// cannot reach the table.
func (t *Table) Append(r Row) {
	r.Inputs = cloneMap(r.Inputs)
	r.Metrics = cloneMap(r.Metrics)
	t.rows = append(t.rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a deep copy of the rows; changing it never reaches the table.
func (t *Table) Rows() []Row {
	out := slices.Clone(t.rows)
	for i := range out {
		out[i].Inputs = cloneMap(out[i].Inputs)
		out[i].Metrics = cloneMap(out[i].Metrics)
	}
	return out
}

// Failures counts rows that recorded a failure.
func (t *Table) Failures() int {
	n := 0
	for _, r := range t.rows {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Inputs returns the input column names.
func (t *Table) Inputs() []string {
	return slices.Clone(t.inputs)
}

// Header returns the column names in file order.
func (t *Table) Header() []string {
	h := make([]string, 0, 2+len(t.metrics)+len(t.inputs))
	h = append(h, SampleColumn)
	h = append(h, t.metrics...)
	h = append(h, t.inputs...)
	return append(h, ErrorColumn)
}

// Records returns one record per row aligned with Header. Missing values are
// nil so writers leave the cell empty.
func (t *Table) Records() [][]any {
	out := make([][]any, len(t.rows))
	for i, r := range t.rows {
		rec := make([]any, 0, 2+len(t.metrics)+len(t.inputs))
		rec = append(rec, r.Index+1)
		for _, m := range t.metrics {
			rec = append(rec, optional(r.Metrics, m))
		}
		for _, in := range t.inputs {
			rec = append(rec, optional(r.Inputs, in))
		}
		if r.Err != "" {
			rec = append(rec, r.Err)
		} else {
			rec = append(rec, nil)
		}
		out[i] = rec
	}
	return out
}

// Column returns the present values of one metric or input in row order.
func (t *Table) Column(name string) []float64 {
	var out []float64
	for _, r := range t.rows {
		if v, ok := r.Metrics[name]; ok {
			out = append(out, v)
		} else if v, ok := r.Inputs[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

func optional(m map[string]float64, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	return nil
}

func cloneMap[M ~map[string]float64](m M) M {
	if m == nil {
		return nil
	}
	out := make(M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
