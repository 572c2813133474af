package results

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Dataset is a column-oriented view of a persisted result file.
// Values only holds cells that parse as numbers.
type Dataset struct {
	Columns  []string
	Values   map[string][]float64
	Rows     int
	Failures int
}

// Load reads a snapshot written by XLSXWriter or CSVWriter.
func Load(path string) (*Dataset, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported result file %q (want .xlsx or .csv)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, errors.New("result file has no header row")
	}

	ds := &Dataset{
		Columns: records[0],
		Values:  make(map[string][]float64, len(records[0])),
		Rows:    len(records) - 1,
	}
	for _, rec := range records[1:] {
		for c, name := range ds.Columns {
			if c >= len(rec) {
				break
			}
			cell := strings.TrimSpace(rec[c])
			if cell == "" {
				continue
			}
			if name == ErrorColumn {
				ds.Failures++
				continue
			}
			if name == SampleColumn {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				ds.Values[name] = append(ds.Values[name], v)
			}
		}
	}
	return ds, nil
}

// NumericColumns returns the columns that hold at least one number,
// in file order.
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, c := range d.Columns {
		if len(d.Values[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}
