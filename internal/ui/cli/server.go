// Package cli holds the HTTP surface exposed while ariadne runs: the
// Prometheus metrics endpoint and a JSON health check.
package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Health is the /health payload. LastRun is zero until the first analysis
// completes.
type Health struct {
	Status     string    `json:"status"`
	RunID      string    `json:"run_id"`
	Files      int       `json:"files"`
	FileErrors int       `json:"file_errors"`
	LastRun    time.Time `json:"last_run,omitempty"`
}

// HealthFunc reports the current health snapshot.
type HealthFunc func(ctx context.Context) Health

type ObservabilityServer struct {
	addr   string
	health HealthFunc
	logger *slog.Logger
	server *http.Server
}

func NewObservabilityServer(addr string, health HealthFunc, logger *slog.Logger) *ObservabilityServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObservabilityServer{
		addr:   addr,
		health: health,
		logger: logger,
	}
}

func (s *ObservabilityServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := s.health(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	s.logger.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
