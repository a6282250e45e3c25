package exporter

import (
	"fmt"
	"strings"
	"time"

	"fedlease/internal/config"
)

// Format is an output file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv", case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	case "":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// OutputFileName names the output after the moment the run finished,
// e.g. 16-10-2026_14-05-09.xlsx
func OutputFileName(now time.Time, format Format) string {
	return now.Format(config.OutputTimestampLayout) + "." + string(format)
}

// Export writes t into the output directory of paths and returns the file path
func Export(paths *config.Paths, format Format, t *Table, now time.Time) (string, error) {
	name := OutputFileName(now, format)

	switch format {
	case FormatCSV:
		w := NewCSVWriter(paths)
		if err := w.WriteTable(name, t); err != nil {
			return "", err
		}
		return w.resolvePath(name), nil
	case FormatXLSX:
		path := paths.GetOutputPath(name)
		if err := WriteXLSX(path, t); err != nil {
			return "", err
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}
