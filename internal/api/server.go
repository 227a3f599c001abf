// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"

	"home-quote-workers/internal/common/config"
	"home-quote-workers/internal/common/logger"
	builddashboarddata "home-quote-workers/internal/workers/quote/build-dashboard-data"
	calculatepremiumquote "home-quote-workers/internal/workers/quote/calculate-premium-quote"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// QuoteService prices a raw JSON quote request.
type QuoteService interface {
	Process(ctx context.Context, raw []byte) (*calculatepremiumquote.Output, error)
}

// DashboardService builds chart and reference data.
type DashboardService interface {
	Execute(ctx context.Context, input *builddashboarddata.Input) (*builddashboarddata.Output, error)
}

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	cfg       config.HTTPConfig
	quotes    QuoteService
	dashboard DashboardService
	checks    map[string]ReadinessCheck
	logger    logger.Logger
	srv       *http.Server
}

func NewServer(cfg config.HTTPConfig, quotes QuoteService, dashboard DashboardService, checks map[string]ReadinessCheck, log logger.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		quotes:    quotes,
		dashboard: dashboard,
		checks:    checks,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
	}
	s.srv = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/quotes", s.handleCreateQuote)
	mux.HandleFunc("GET /v1/reference", s.handleReference)
	mux.HandleFunc("GET /v1/charts/top-risk", s.handleTopRisk)
	mux.HandleFunc("GET /v1/charts/premium-trend", s.handlePremiumTrend)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.withRequestID(s.withMetrics(mux))
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address})
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
