// internal/monitoring/monitoring_test.go
package monitoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayscout/stayscout/internal/output"
	"github.com/stayscout/stayscout/pkg/types"
)

func TestMetricsHotelDone(t *testing.T) {
	m := NewMetrics()

	m.HotelStarted()
	m.HotelDone(&types.DetectionResult{
		BookingEngine: "Cloudbeds",
		BookingURL:    "https://hotels.cloudbeds.com/reservation/abc",
	}, 3*time.Second)

	m.HotelStarted()
	m.HotelDone(&types.DetectionResult{Error: types.ErrTimeout}, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `stayscout_detector_hotels_processed_total{outcome="known_engine"} 1`)
	assert.Contains(t, string(body), `stayscout_detector_hotels_processed_total{outcome="error"} 1`)
	assert.Contains(t, string(body), "stayscout_detector_booking_urls_total 1")
}

func TestOutcomeLabel(t *testing.T) {
	tests := []struct {
		name   string
		result types.DetectionResult
		want   string
	}{
		{"error", types.DetectionResult{Error: types.ErrTimeout}, "error"},
		{"known", types.DetectionResult{BookingEngine: "Mews"}, "known_engine"},
		{"sentinel", types.DetectionResult{BookingEngine: types.EngineUnknownThirdParty}, "sentinel"},
		{"empty", types.DetectionResult{}, "sentinel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeLabel(&tt.result))
		})
	}
}

func TestStatusEndpoint(t *testing.T) {
	store, err := output.OpenStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Upsert(context.Background(), []types.DetectionResult{
		{Name: "Grand Hotel", Website: "https://grandhotel.com", BookingEngine: "Cloudbeds", BookingURL: "https://hotels.cloudbeds.com/a"},
		{Name: "Seaside Inn", Website: "https://seasideinn.com", Error: types.ErrTimeout},
	}))

	s := NewServer(":0", NewMetrics(), store, zerolog.Nop())
	router := mux.NewRouter()
	router.HandleFunc("/status", s.handleStatus)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status statusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, 2, status.Store.Total)
	assert.Equal(t, 1, status.Store.KnownEngines)
	assert.Equal(t, 1, status.Store.Errors)
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(":0", NewMetrics(), nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
