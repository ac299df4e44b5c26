// internal/pipeline/filter.go
package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/output"
	"github.com/stayscout/stayscout/pkg/types"
)

// FilterProcessed drops records whose stored result is terminal. Rows with
// errors or only sentinel engine values are re-offered so a later run can
// improve on them.
func FilterProcessed(records []types.HotelRecord, processed map[output.ResultKey]types.DetectionResult, log zerolog.Logger) []types.HotelRecord {
	if len(processed) == 0 {
		return records
	}

	kept := make([]types.HotelRecord, 0, len(records))
	skipped := 0
	for _, rec := range records {
		stored, ok := processed[output.KeyOfRecord(&rec)]
		if ok && stored.Terminal() {
			skipped++
			continue
		}
		kept = append(kept, rec)
	}

	if skipped > 0 {
		log.Info().
			Int("skipped", skipped).
			Int("remaining", len(kept)).
			Msg("resume filter applied")
	}
	return kept
}
