package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fedlease/internal/config"
)

const columnWidth = 24

// WriteXLSX writes t to a single-sheet workbook at path. The header row is
// bold and carries an autofilter. Every value is stored as text so tax
// identifiers keep their leading zeros.
func WriteXLSX(path string, t *Table) error {
	slog.Info("Writing XLSX file",
		slog.String("file_path", path),
		slog.Int("record_count", t.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := config.OutputSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := t.Headers()
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for r := 0; r < t.Len(); r++ {
		for c, v := range t.cells(r) {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet, cell, v.(string)); err != nil {
				return fmt.Errorf("failed to write record %d: %w", r, err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, t.Len()+1), nil); err != nil {
		return fmt.Errorf("failed to add autofilter: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
