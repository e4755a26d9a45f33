// Package server exposes the orchestrator over HTTP.
//
// Endpoints:
//
//	POST /v1/ask            run one request through the orchestrator
//	GET  /v1/health         latest provider health (?refresh=true probes now)
//	GET  /v1/routing-rules  static affinity table, observability only
//	GET  /v1/runs           recent run history
//	GET  /metrics           Prometheus scrape endpoint (when enabled)
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/helios-ai/arbiter/pkg/config"
	"github.com/helios-ai/arbiter/pkg/history"
	"github.com/helios-ai/arbiter/pkg/orchestrator"
	"github.com/helios-ai/arbiter/pkg/telemetry/metrics"
)

// Server is the HTTP front end.
type Server struct {
	config  config.ServerConfig
	orch    *orchestrator.Orchestrator
	store   history.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	http    *http.Server
}

// Options carries optional collaborators. Store and Metrics may be nil,
// which disables the corresponding endpoints.
type Options struct {
	Store       history.Store
	Metrics     *metrics.Metrics
	MetricsPath string
}

// New creates a server bound to the orchestrator.
func New(cfg config.ServerConfig, orch *orchestrator.Orchestrator, opts Options) *Server {
	s := &Server{
		config:  cfg,
		orch:    orch,
		store:   opts.Store,
		metrics: opts.Metrics,
		logger:  slog.Default().With("component", "http-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/ask", s.handleAsk)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/routing-rules", s.handleRoutingRules)
	mux.HandleFunc("GET /v1/runs", s.handleRuns)

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, opts.Metrics.Handler())
	}

	s.http = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "address", s.config.ListenAddress)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.http.Shutdown(shutdownCtx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
