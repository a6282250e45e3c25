// Package exporter accumulates lease records and writes them out.
//
// Table is the column-oriented result of a run. It is written once, either as
// an .xlsx workbook (excelize) or as a UTF-8 CSV with a BOM so Excel opens the
// Cyrillic headers correctly.
//
// Example usage:
//
//	table := exporter.NewTable()
//	table.Append(record)
//
//	path, err := exporter.Export(paths, exporter.FormatXLSX, table, time.Now())
package exporter
