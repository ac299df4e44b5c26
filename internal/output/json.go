// internal/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stayscout/stayscout/pkg/types"
)

// JSONWriter writes results as an indented JSON array.
type JSONWriter struct {
	filename string
}

// NewJSONWriter creates a new JSON writer targeting filename.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("JSON file path is required")
	}
	return &JSONWriter{filename: filename}, nil
}

// WriteAll replaces the file with the given snapshot.
func (w *JSONWriter) WriteAll(results []types.DetectionResult) error {
	file, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	if results == nil {
		results = []types.DetectionResult{}
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// Close is a no-op; the file is opened and closed per snapshot.
func (w *JSONWriter) Close() error { return nil }
