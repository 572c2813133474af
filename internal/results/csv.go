package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSVWriter writes the Results sheet as a plain CSV file.
type CSVWriter struct {
	path string
}

func (w *CSVWriter) Path() string { return w.path }

func (w *CSVWriter) Write(t *Table) error {
	return writeFileAtomic(w.path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		if err := cw.Write(t.Header()); err != nil {
			return err
		}
		for _, rec := range t.Records() {
			fields := make([]string, len(rec))
			for i, v := range rec {
				fields[i] = formatCell(v)
			}
			if err := cw.Write(fields); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
