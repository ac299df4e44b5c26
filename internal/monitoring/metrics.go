// internal/monitoring/metrics.go
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stayscout/stayscout/pkg/types"
)

// Metrics tracks the run in Prometheus terms. It satisfies the pipeline's
// Observer interface, so every finished hotel lands here.
type Metrics struct {
	registry *prometheus.Registry

	hotelsProcessed *prometheus.CounterVec
	bookingURLs     prometheus.Counter
	detectionTime   prometheus.Histogram
	hotelsInFlight  prometheus.Gauge
}

// NewMetrics builds a metrics set on its own registry. A private registry
// keeps repeated construction (tests, subcommands) from colliding on the
// global one.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		hotelsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stayscout",
				Subsystem: "detector",
				Name:      "hotels_processed_total",
				Help:      "Hotels run through the detection cascade, by outcome",
			},
			[]string{"outcome"},
		),
		bookingURLs: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "stayscout",
				Subsystem: "detector",
				Name:      "booking_urls_total",
				Help:      "Hotels that yielded a booking URL",
			},
		),
		detectionTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "stayscout",
				Subsystem: "detector",
				Name:      "detection_duration_seconds",
				Help:      "Per-hotel detection duration in seconds",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120, 300},
			},
		),
		hotelsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "stayscout",
				Subsystem: "detector",
				Name:      "hotels_in_flight",
				Help:      "Hotels currently being detected",
			},
		),
	}
}

// HotelStarted marks a hotel entering detection.
func (m *Metrics) HotelStarted() {
	m.hotelsInFlight.Inc()
}

// HotelDone records a finished hotel.
func (m *Metrics) HotelDone(result *types.DetectionResult, elapsed time.Duration) {
	m.hotelsProcessed.WithLabelValues(outcomeLabel(result)).Inc()
	if result.BookingURL != "" {
		m.bookingURLs.Inc()
	}
	m.detectionTime.Observe(elapsed.Seconds())
	m.hotelsInFlight.Dec()
}

func outcomeLabel(result *types.DetectionResult) string {
	switch {
	case result.Error != "":
		return "error"
	case result.HasKnownEngine():
		return "known_engine"
	default:
		return "sentinel"
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
