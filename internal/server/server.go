// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the discover service over HTTP:
//
//	GET  /                 health check
//	GET  /papers/search    unranked candidate listing
//	POST /papers/search    ranked search
//	POST /plan/monthly     four-week reading plan
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/pdiddy/reading-planner/internal/discover"
	"github.com/pdiddy/reading-planner/internal/logger"
	"github.com/pdiddy/reading-planner/pkg/types"
)

const defaultShutdownTimeout = 10 * time.Second

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves the HTTP API.
type Server struct {
	svc *discover.Service
	cfg types.ServerConfig
}

// New returns a Server answering requests with svc.
func New(svc *discover.Service, cfg types.ServerConfig) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Server{svc: svc, cfg: cfg}
}

// Handler returns the routed handler wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /papers/search", s.handleList)
	mux.HandleFunc("POST /papers/search", s.handleSearch)
	mux.HandleFunc("POST /plan/monthly", s.handlePlan)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	})
	return withRequestID(c.Handler(mux))
}

// Run listens on cfg.Addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	svr := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", s.cfg.Addr)
		errCh <- svr.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return svr.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
