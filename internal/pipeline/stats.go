// internal/pipeline/stats.go
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/pkg/types"
)

// Summary is the end-of-run tally.
type Summary struct {
	Processed    int           `json:"processed"`
	BookingURLs  int           `json:"booking_urls"`
	KnownEngines int           `json:"known_engines"`
	Errors       int           `json:"errors"`
	Skipped      int           `json:"skipped"`
	Duration     time.Duration `json:"duration"`
}

func (s *Summary) observe(r *types.DetectionResult) {
	s.Processed++
	if r.BookingURL != "" {
		s.BookingURLs++
	}
	if r.HasKnownEngine() {
		s.KnownEngines++
	}
	if r.Error != "" {
		s.Errors++
	}
}

// HitRate is the share of processed hotels that yielded a booking URL, in
// percent.
func (s *Summary) HitRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.BookingURLs) / float64(s.Processed) * 100
}

// Log writes the run summary.
func (s *Summary) Log(log zerolog.Logger) {
	log.Info().
		Int("processed", s.Processed).
		Int("booking_urls", s.BookingURLs).
		Int("known_engines", s.KnownEngines).
		Int("errors", s.Errors).
		Int("skipped", s.Skipped).
		Str("hit_rate", formatPercent(s.HitRate())).
		Dur("duration", s.Duration).
		Msg("run complete")
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
