package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FeatureProvider serves the built feature set to HTTP consumers.
type FeatureProvider interface {
	CheckReadiness(ctx context.Context) error
	PCodes() []string
	Recent(pcode string, n int) []domain.FeatureRow
}

// Server exposes health, readiness, metrics, and feature query endpoints.
type Server struct {
	httpServer    *http.Server
	provider      FeatureProvider
	defaultRecent int
	logger        *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /v1 feature query routes. defaultRecent is the recency count used when a
// request does not pass ?days=N.
func NewServer(addr string, provider FeatureProvider, defaultRecent int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider:      provider,
		defaultRecent: defaultRecent,
		logger:        logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/pcodes", s.handlePCodes)
	mux.HandleFunc("GET /v1/pcodes/{pcode}/recent", s.handleRecent)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handlePCodes(w http.ResponseWriter, _ *http.Request) {
	pcodes := s.provider.PCodes()
	if pcodes == nil {
		pcodes = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"pcodes": pcodes})
}

// handleRecent serves the query view: the last N complete-feature rows for
// one PCODE, date ascending. An unknown PCODE is an empty result, not a 404.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	pcode := r.PathValue("pcode")

	n := s.defaultRecent
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "days must be a positive integer",
			})
			return
		}
		n = parsed
	}

	rows := s.provider.Recent(pcode, n)
	if rows == nil {
		rows = []domain.FeatureRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pcode": pcode,
		"rows":  rows,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
