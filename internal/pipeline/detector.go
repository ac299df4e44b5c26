// internal/pipeline/detector.go
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/browser"
	"github.com/stayscout/stayscout/internal/detect"
	"github.com/stayscout/stayscout/pkg/types"
)

// BrowserDetector runs the cascade against tabs drawn from a shared pool.
type BrowserDetector struct {
	pool *browser.Pool
	orch *detect.Orchestrator
	log  zerolog.Logger
}

// NewBrowserDetector wires the orchestrator to the tab pool.
func NewBrowserDetector(pool *browser.Pool, orch *detect.Orchestrator, log zerolog.Logger) *BrowserDetector {
	return &BrowserDetector{pool: pool, orch: orch, log: log}
}

// Detect checks out a tab, runs the cascade, and returns the tab to the
// pool. A tab that cannot be opened is reported as an exception result, not
// an error; the rest of the run continues on the remaining contexts.
func (d *BrowserDetector) Detect(ctx context.Context, rec types.HotelRecord) types.DetectionResult {
	tab, err := d.pool.Get()
	if err != nil {
		d.log.Error().Err(err).Str("website", rec.Website).Msg("failed to open browsing context")
		result := baseResult(rec)
		result.Error = types.ExceptionPrefix + truncateMessage(err.Error())
		return result
	}
	defer d.pool.Put(tab)

	newPage := func(context.Context) (detect.Page, func(), error) {
		extra, err := d.pool.Get()
		if err != nil {
			return nil, nil, err
		}
		return extra, func() { d.pool.Put(extra) }, nil
	}

	return d.orch.Detect(ctx, tab, newPage, rec)
}
