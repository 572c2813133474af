package results

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Format is the file format of a result snapshot.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want xlsx or csv)", s)
	}
}

// Writer persists a full snapshot of a table, replacing the previous one.
type Writer interface {
	Write(t *Table) error
	Path() string
}

// NewWriter returns the writer for format at path.
func NewWriter(format Format, path string) (Writer, error) {
	switch format {
	case FormatXLSX, "":
		return &XLSXWriter{path: path}, nil
	case FormatCSV:
		return &CSVWriter{path: path}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// FileName returns the snapshot name for a run started at ts, e.g.
// MonteCarlo_Results_20250102_1504.xlsx.
func FileName(prefix string, ts time.Time, format Format) string {
	if prefix == "" {
		prefix = "MonteCarlo_Results"
	}
	if format == "" {
		format = FormatXLSX
	}
	return fmt.Sprintf("%s_%s.%s", prefix, ts.Format("20060102_1504"), format)
}

// UniquePath returns path when nothing exists there, otherwise the first of
// name_2.ext, name_3.ext, ... that is free. Two runs started in the same
// minute therefore keep separate files.
func UniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
	}
}

// writeFileAtomic writes through a temporary file in the same directory and
// renames it over path, so a crash leaves either the old or the new snapshot.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
