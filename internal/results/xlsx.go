package results

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names of a result workbook.
const (
	ResultsSheet = "Results"
	RunSheet     = "Run"
)

// XLSXWriter writes a workbook with a Results sheet and a Run metadata sheet.
type XLSXWriter struct {
	path string
}

func (w *XLSXWriter) Path() string { return w.path }

func (w *XLSXWriter) Write(t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, 0, len(t.Header()))
	for _, h := range t.Header() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.NewSheet(RunSheet); err != nil {
		return fmt.Errorf("add run sheet: %w", err)
	}
	meta := [][]any{
		{"Run ID", t.Meta.RunID},
		{"Model", t.Meta.ModelPath},
		{"Seed", strconv.FormatUint(t.Meta.Seed, 10)},
		{"Samples", t.Meta.Samples},
		{"Completed", t.Len()},
		{"Failures", t.Failures()},
		{"Generated", t.Meta.GeneratedAt.Format(time.RFC3339)},
		{"Version", t.Meta.Version},
	}
	for i, rec := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RunSheet, cell, &rec); err != nil {
			return fmt.Errorf("write run metadata: %w", err)
		}
	}

	return writeFileAtomic(w.path, func(out io.Writer) error {
		return f.Write(out)
	})
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(ResultsSheet)
}
