// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/stayscout/stayscout/pkg/types"
)

// CSVWriter writes results in CSV format with a stable column order.
type CSVWriter struct {
	filename string
}

// NewCSVWriter creates a new CSV writer targeting filename.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("CSV file path is required")
	}
	return &CSVWriter{filename: filename}, nil
}

// WriteAll replaces the file with the given snapshot. Rewriting the whole
// file keeps partial runs readable at any point.
func (w *CSVWriter) WriteAll(results []types.DetectionResult) error {
	file, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers, _ := (&types.DetectionResult{}).Fields()
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range results {
		_, row := results[i].Fields()
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Close is a no-op; the file is opened and closed per snapshot.
func (w *CSVWriter) Close() error { return nil }
