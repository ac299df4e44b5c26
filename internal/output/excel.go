// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/stayscout/stayscout/pkg/types"
)

// Excel cells hard-cap at 32767 characters; longer values are truncated.
const excelMaxCellLength = 32767

// ExcelWriter writes results as a styled .xlsx workbook, the deliverable
// format the sales side works in.
type ExcelWriter struct {
	filename  string
	sheetName string
}

// NewExcelWriter creates a new Excel writer targeting filename.
func NewExcelWriter(filename string) (*ExcelWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("Excel file path is required")
	}
	return &ExcelWriter{filename: filename, sheetName: "Leads"}, nil
}

// WriteAll writes the snapshot as a single sheet with a frozen, filtered
// header row.
func (w *ExcelWriter) WriteAll(results []types.DetectionResult) error {
	file := excelize.NewFile()
	defer file.Close()

	defaultSheet := file.GetSheetName(0)
	if defaultSheet != w.sheetName {
		file.SetSheetName(defaultSheet, w.sheetName)
	}

	headers, _ := (&types.DetectionResult{}).Fields()

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := file.SetCellValue(w.sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := file.SetCellStyle(w.sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	widths := columnWidths(headers, results)
	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to compute column name: %w", err)
		}
		if err := file.SetColWidth(w.sheetName, col, col, widths[i]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx := range results {
		_, row := results[rowIdx].Fields()
		for colIdx, value := range row {
			if len(value) > excelMaxCellLength {
				value = value[:excelMaxCellLength]
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := file.SetCellValue(w.sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to compute last column: %w", err)
	}
	filterRange := fmt.Sprintf("A1:%s%d", lastCol, len(results)+1)
	if err := file.AutoFilter(w.sheetName, filterRange, nil); err != nil {
		return fmt.Errorf("failed to set auto filter: %w", err)
	}

	if err := file.SetPanes(w.sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := file.SaveAs(w.filename); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// columnWidths sizes each column to its longest value, clamped to a readable
// range.
func columnWidths(headers []string, results []types.DetectionResult) []float64 {
	const (
		minWidth = 10.0
		maxWidth = 60.0
	)

	widths := make([]float64, len(headers))
	for i, h := range headers {
		widths[i] = float64(len(h))
	}
	for i := range results {
		_, row := results[i].Fields()
		for j, value := range row {
			if w := float64(len(value)); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
		if widths[i] > maxWidth {
			widths[i] = maxWidth
		}
	}
	return widths
}

// Close is a no-op; the workbook is built and saved per snapshot.
func (w *ExcelWriter) Close() error { return nil }
