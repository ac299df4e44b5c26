// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/stayscout/stayscout/internal/config"
	"github.com/stayscout/stayscout/internal/output"
	"github.com/stayscout/stayscout/pkg/types"
)

// Detector runs the detection cascade for one hotel. It never returns an
// error; failures are encoded on the result.
type Detector interface {
	Detect(ctx context.Context, rec types.HotelRecord) types.DetectionResult
}

// Prechecker answers whether a website is worth opening a browser for.
type Prechecker interface {
	Check(ctx context.Context, url string) (bool, string)
}

// Observer is notified as hotels start and finish. Used for metrics; may be
// nil.
type Observer interface {
	HotelStarted()
	HotelDone(result *types.DetectionResult, elapsed time.Duration)
}

// Runner schedules detection across the input records: bounded concurrency,
// optional pacing between starts, resume filtering against the store, and
// incremental persistence so an interrupted run keeps its progress.
type Runner struct {
	cfg      *config.Config
	detector Detector
	precheck Prechecker
	manager  *output.Manager
	observer Observer
	log      zerolog.Logger
}

// NewRunner wires a runner. observer may be nil.
func NewRunner(cfg *config.Config, detector Detector, precheck Prechecker, manager *output.Manager, observer Observer, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		detector: detector,
		precheck: precheck,
		manager:  manager,
		observer: observer,
		log:      log,
	}
}

// Run processes the whole input file and returns the tally.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	records, loadStats, err := LoadHotels(r.cfg.Input, r.log)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Skipped: loadStats.SkippedChains + loadStats.SkippedJunk}

	if r.cfg.Pipeline.Resume {
		processed, err := r.manager.Store().Processed(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to read stored results: %w", err)
		}
		before := len(records)
		records = FilterProcessed(records, processed, r.log)
		summary.Skipped += before - len(records)
	}

	results := make(chan types.DetectionResult, r.cfg.Pipeline.Concurrency)
	collectDone := make(chan error, 1)
	go func() { collectDone <- r.collect(results, &summary) }()

	limiter := rate.NewLimiter(rate.Inf, 1)
	if pause := r.cfg.Pipeline.Pause.Std(); pause > 0 {
		limiter = rate.NewLimiter(rate.Every(pause), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Pipeline.Concurrency)

	for _, rec := range records {
		rec := rec
		if err := limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			results <- r.processOne(gctx, rec)
			return nil
		})
	}

	workErr := g.Wait()
	close(results)
	collectErr := <-collectDone

	summary.Duration = time.Since(start)
	summary.Log(r.log)

	if workErr != nil {
		return summary, workErr
	}
	if collectErr != nil {
		return summary, collectErr
	}
	return summary, ctx.Err()
}

// collect drains finished results, tallies them, and persists in batches of
// FlushEvery. Persistence runs without the run context so an interrupt still
// lands the final batch.
func (r *Runner) collect(results <-chan types.DetectionResult, summary *Summary) error {
	batch := make([]types.DetectionResult, 0, r.cfg.Pipeline.FlushEvery)
	var firstErr error

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.flush(batch); err != nil {
			r.log.Error().Err(err).Msg("result persistence failed")
			if firstErr == nil {
				firstErr = err
			}
		}
		batch = batch[:0]
	}

	for res := range results {
		summary.observe(&res)
		r.log.Info().
			Str("name", res.Name).
			Str("engine", res.BookingEngine).
			Str("method", res.DetectionMethod).
			Str("error", res.Error).
			Msg("hotel done")

		batch = append(batch, res)
		if len(batch) >= r.cfg.Pipeline.FlushEvery {
			flush()
		}
	}
	flush()
	return firstErr
}

func (r *Runner) flush(batch []types.DetectionResult) error {
	ctx := context.Background()
	if err := r.manager.Save(ctx, batch); err != nil {
		return fmt.Errorf("failed to persist results: %w", err)
	}
	if err := r.manager.Snapshot(ctx); err != nil {
		r.log.Warn().Err(err).Msg("snapshot failed")
	}
	return nil
}

// processOne runs the precheck and the cascade for a single record. A panic
// anywhere below becomes an exception result instead of killing the run.
func (r *Runner) processOne(ctx context.Context, rec types.HotelRecord) (result types.DetectionResult) {
	start := time.Now()
	if r.observer != nil {
		r.observer.HotelStarted()
	}
	defer func() {
		if p := recover(); p != nil {
			result = baseResult(rec)
			result.Error = types.ExceptionPrefix + truncateMessage(fmt.Sprintf("%v", p))
			r.log.Error().
				Str("website", rec.Website).
				Str("panic", fmt.Sprintf("%v", p)).
				Msg("detection panicked")
		}
		if r.observer != nil {
			r.observer.HotelDone(&result, time.Since(start))
		}
	}()

	// No website means nothing to detect. The lead is still persisted so
	// the store shows it was considered, but it is not an error.
	if rec.Website == "" {
		return baseResult(rec)
	}

	if r.precheck != nil {
		if ok, reason := r.precheck.Check(ctx, rec.Website); !ok {
			result = baseResult(rec)
			result.Error = types.PrecheckFailedPrefix + reason
			return result
		}
	}

	return r.detector.Detect(ctx, rec)
}

// baseResult carries the record's discovery fields onto a result that never
// reached the cascade.
func baseResult(rec types.HotelRecord) types.DetectionResult {
	return types.DetectionResult{
		Name:        rec.Name,
		Website:     rec.Website,
		PhoneGoogle: rec.Phone,
		Address:     rec.Address,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Rating:      rec.Rating,
		ReviewCount: rec.ReviewCount,
		PlaceID:     rec.PlaceID,
	}
}

func truncateMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	if len(msg) > 100 {
		msg = msg[:100]
	}
	return msg
}
