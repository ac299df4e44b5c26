// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscout/stayscout/internal/config"
	"github.com/stayscout/stayscout/internal/output"
	"github.com/stayscout/stayscout/pkg/types"
)

// fakeDetector returns canned results keyed by website and records which
// hotels it was asked about.
type fakeDetector struct {
	mu      sync.Mutex
	results map[string]types.DetectionResult
	seen    []string
	panicOn string
}

func (d *fakeDetector) Detect(_ context.Context, rec types.HotelRecord) types.DetectionResult {
	d.mu.Lock()
	d.seen = append(d.seen, rec.Website)
	d.mu.Unlock()

	if d.panicOn != "" && rec.Website == d.panicOn {
		panic("selector crashed on " + rec.Website)
	}
	if r, ok := d.results[rec.Website]; ok {
		return r
	}
	r := baseResult(rec)
	r.BookingEngine = types.EngineUnknown
	r.Error = types.ErrNoBookingFound
	return r
}

func (d *fakeDetector) websites() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.seen...)
}

type fakePrechecker struct {
	failWith map[string]string
}

func (p *fakePrechecker) Check(_ context.Context, url string) (bool, string) {
	if reason, ok := p.failWith[url]; ok {
		return false, reason
	}
	return true, ""
}

func testRunnerConfig(t *testing.T, inputCSV string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Path = writeInput(t, "hotels.csv", inputCSV)
	cfg.Input.SkipChains = false
	cfg.Input.SkipJunk = false
	cfg.Pipeline.Concurrency = 2
	cfg.Pipeline.FlushEvery = 2
	cfg.Output.StorePath = filepath.Join(t.TempDir(), "results.db")
	return cfg
}

func newTestManager(t *testing.T, cfg *config.Config) *output.Manager {
	t.Helper()
	m, err := output.NewManager(cfg.Output, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRunnerProcessesAndPersists(t *testing.T) {
	cfg := testRunnerConfig(t, `name,website
Grand Hotel,https://www.grandhotel.com
Seaside Inn,https://seasideinn.com
Mountain Lodge,https://mountainlodge.com
`)

	detector := &fakeDetector{results: map[string]types.DetectionResult{
		"https://www.grandhotel.com": {
			Name:          "Grand Hotel",
			Website:       "https://www.grandhotel.com",
			BookingEngine: "Cloudbeds",
			BookingURL:    "https://hotels.cloudbeds.com/reservation/abc",
		},
	}}

	manager := newTestManager(t, cfg)
	runner := NewRunner(cfg, detector, nil, manager, nil, zerolog.Nop())

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.BookingURLs)
	assert.Equal(t, 1, summary.KnownEngines)
	assert.Equal(t, 2, summary.Errors)
	assert.Len(t, detector.websites(), 3)

	stored, err := manager.Store().All(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestRunnerNoWebsite(t *testing.T) {
	cfg := testRunnerConfig(t, `name,website
Phone Only Hotel,
`)

	detector := &fakeDetector{}
	manager := newTestManager(t, cfg)
	runner := NewRunner(cfg, detector, nil, manager, nil, zerolog.Nop())

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Processed)
	assert.Zero(t, summary.Errors, "a lead without a website is skipped, not errored")
	assert.Empty(t, detector.websites())

	stored, err := manager.Store().All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Phone Only Hotel", stored[0].Name)
	assert.Empty(t, stored[0].Error)
	assert.Empty(t, stored[0].BookingEngine)
}

func TestRunnerPrecheckFailure(t *testing.T) {
	cfg := testRunnerConfig(t, `name,website
Grand Hotel,https://www.grandhotel.com
`)

	detector := &fakeDetector{}
	precheck := &fakePrechecker{failWith: map[string]string{
		"https://www.grandhotel.com": "HTTP 503",
	}}
	manager := newTestManager(t, cfg)
	runner := NewRunner(cfg, detector, precheck, manager, nil, zerolog.Nop())

	_, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, detector.websites())

	stored, err := manager.Store().All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, types.PrecheckFailedPrefix+"HTTP 503", stored[0].Error)
}

func TestRunnerPanicBecomesExceptionResult(t *testing.T) {
	cfg := testRunnerConfig(t, `name,website
Grand Hotel,https://www.grandhotel.com
Seaside Inn,https://seasideinn.com
`)

	detector := &fakeDetector{panicOn: "https://www.grandhotel.com"}
	manager := newTestManager(t, cfg)
	runner := NewRunner(cfg, detector, nil, manager, nil, zerolog.Nop())

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)

	stored, err := manager.Store().All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, r := range stored {
		if r.Name == "Grand Hotel" {
			assert.Contains(t, r.Error, types.ExceptionPrefix)
			assert.Contains(t, r.Error, "selector crashed")
		}
	}
}

func TestRunnerResumeSkipsTerminalRows(t *testing.T) {
	cfg := testRunnerConfig(t, `name,website
Grand Hotel,https://www.grandhotel.com
Seaside Inn,https://seasideinn.com
`)
	cfg.Pipeline.Resume = true

	manager := newTestManager(t, cfg)
	require.NoError(t, manager.Save(context.Background(), []types.DetectionResult{
		{Name: "Grand Hotel", Website: "https://www.grandhotel.com", BookingEngine: "Mews"},
		{Name: "Seaside Inn", Website: "https://seasideinn.com", Error: types.ErrTimeout},
	}))

	detector := &fakeDetector{}
	runner := NewRunner(cfg, detector, nil, manager, nil, zerolog.Nop())

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	// The terminal row is skipped, the errored row is re-offered.
	assert.Equal(t, []string{"https://seasideinn.com"}, detector.websites())
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRunnerObserverNotified(t *testing.T) {
	cfg := testRunnerConfig(t, `name,website
Grand Hotel,https://www.grandhotel.com
`)

	var (
		mu    sync.Mutex
		calls int
	)
	observer := observerFunc(func(*types.DetectionResult, time.Duration) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	manager := newTestManager(t, cfg)
	runner := NewRunner(cfg, &fakeDetector{}, nil, manager, observer, zerolog.Nop())

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

type observerFunc func(*types.DetectionResult, time.Duration)

func (f observerFunc) HotelStarted() {}

func (f observerFunc) HotelDone(r *types.DetectionResult, d time.Duration) { f(r, d) }

func TestFilterProcessed(t *testing.T) {
	records := []types.HotelRecord{
		{Name: "Grand Hotel", Website: "https://www.grandhotel.com"},
		{Name: "Seaside Inn", Website: "https://seasideinn.com"},
		{Name: "Mountain Lodge", Website: "https://mountainlodge.com"},
	}
	processed := map[output.ResultKey]types.DetectionResult{
		{Name: "Grand Hotel", Website: "https://www.grandhotel.com"}: {
			Name: "Grand Hotel", Website: "https://www.grandhotel.com", BookingEngine: "Cloudbeds",
		},
		{Name: "Seaside Inn", Website: "https://seasideinn.com"}: {
			Name: "Seaside Inn", Website: "https://seasideinn.com",
			BookingEngine: types.EngineUnknown, Error: types.ErrNoBookingFound,
		},
	}

	kept := FilterProcessed(records, processed, zerolog.Nop())
	require.Len(t, kept, 2)
	assert.Equal(t, "Seaside Inn", kept[0].Name)
	assert.Equal(t, "Mountain Lodge", kept[1].Name)
}

func TestSummaryHitRate(t *testing.T) {
	s := Summary{Processed: 8, BookingURLs: 2}
	assert.InDelta(t, 25.0, s.HitRate(), 0.001)

	empty := Summary{}
	assert.Zero(t, empty.HitRate())
}
