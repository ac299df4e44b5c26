// internal/output/writer.go
package output

import (
	"strings"

	"github.com/stayscout/stayscout/pkg/types"
)

// Writer writes a snapshot of detection results to some destination.
type Writer interface {
	WriteAll(results []types.DetectionResult) error
	Close() error
}

// ResultKey identifies a stored result. The same hotel reprocessed lands on
// the same key and overwrites its prior row.
type ResultKey struct {
	Name    string
	Website string
}

// KeyOf builds the storage key for a result.
func KeyOf(r *types.DetectionResult) ResultKey {
	name, website := r.Key()
	return ResultKey{Name: name, Website: website}
}

// KeyOfRecord builds the storage key for an input record, matching the key
// its result would get.
func KeyOfRecord(rec *types.HotelRecord) ResultKey {
	return ResultKey{Name: strings.TrimSpace(rec.Name), Website: rec.Website}
}
