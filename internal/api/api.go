// Package api provides the health and metrics HTTP endpoints.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/metrics"
)

// Server serves the health and metrics endpoints.
type Server struct {
	httpServer *http.Server
	collector  *metrics.Collector
}

// NewServer creates a server on the given address. The collector may be nil
// when metrics collection is not configured.
func NewServer(addr string, collector *metrics.Collector) *Server {
	s := &Server{collector: collector}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start runs the HTTP server in a background goroutine.
func (s *Server) Start() {
	go func() {
		slog.Info("Starting HTTP API", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP API failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleMetrics handles GET /metrics, returning the current collector
// snapshot as JSON.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.collector == nil {
		http.Error(w, "metrics not configured", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.collector.GetSnapshot()); err != nil {
		slog.Error("Failed to encode metrics snapshot", "error", err)
	}
}
