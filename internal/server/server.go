// Package server exposes the scheduling pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                  liveness probe
//	POST /v1/schedule              schedule report as JSON
//	POST /v1/schedule/{format}     one rendered artifact (json, csv, dot, svg, png)
//
// Request bodies are task documents. The input format follows the
// Content-Type header (application/json, application/toml, application/yaml)
// or the ?input= query parameter, and defaults to the line format.
// Structural problems in the tasks are answered with 422 and a JSON body
// {"code": ..., "message": ...}.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/schedulator/pkg/pipeline"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

// Options configures a Server.
type Options struct {
	Addr      string
	PathLimit int
	Parallel  int
	Detailed  bool
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("", "text/plain", "application/json", "application/toml", "application/yaml", "application/x-yaml"))
		r.Post("/schedule", s.handleSchedule)
		r.Post("/schedule/{format}", s.handleRender)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
