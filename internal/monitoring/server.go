// internal/monitoring/server.go
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/stayscout/stayscout/internal/output"
)

// Server exposes run progress over HTTP: Prometheus metrics on /metrics and
// a JSON snapshot of the store on /status.
type Server struct {
	addr    string
	metrics *Metrics
	store   *output.Store
	log     zerolog.Logger
	started time.Time

	srv *http.Server
}

// NewServer builds the monitoring server. It does not listen until Start.
func NewServer(addr string, metrics *Metrics, store *output.Store, log zerolog.Logger) *Server {
	return &Server{
		addr:    addr,
		metrics: metrics,
		store:   store,
		log:     log,
		started: time.Now(),
	}
}

// Start listens in the background and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	router := mux.NewRouter()
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		s.log.Info().Str("addr", s.addr).Msg("monitoring server listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("monitoring server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()
}

type statusResponse struct {
	Uptime string            `json:"uptime"`
	Store  output.StoreStats `json:"store"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Msg("status query failed")
		http.Error(w, "store unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Store:  stats,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
