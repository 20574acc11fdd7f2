package database

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// historySheet is the worksheet name used by ExportXLSX.
const historySheet = "Runs"

// ExportXLSX returns an XLSX workbook (as bytes) listing runs, one per row.
func ExportXLSX(runs []RunRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if _, err := f.NewSheet(historySheet); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(historySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Run ID",
		"Processed At",
		"Document Type",
		"Source File",
		"Output Directory",
		"DPI",
		"Total Pages",
		"Redacted Pages",
		"Skipped Pages",
		"Zones Applied",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(historySheet, cell, h)
	}

	for i, r := range runs {
		row := i + 2
		values := []any{
			r.ID.String(),
			r.ProcessedAt.UTC().Format("2006-01-02 15:04:05"),
			r.DocumentType,
			r.SourceFile,
			r.OutputDir,
			r.DPI,
			r.Stats.TotalPages,
			r.Stats.RedactedPages,
			r.Stats.SkippedPages,
			r.Stats.TotalZonesApplied,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(historySheet, cell, v)
		}
	}

	_ = f.SetColWidth(historySheet, "A", "A", 38) // id
	_ = f.SetColWidth(historySheet, "B", "B", 20) // time
	_ = f.SetColWidth(historySheet, "C", "C", 18) // type
	_ = f.SetColWidth(historySheet, "D", "E", 48) // paths
	_ = f.SetColWidth(historySheet, "F", "J", 14) // counts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
