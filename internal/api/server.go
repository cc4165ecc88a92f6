// Package api exposes dependency resolution over HTTP.
//
// Routes:
//
//	GET /healthz                               liveness probe
//	GET /v1/package/{id}?version=&framework=   resolved package metadata
//	GET /v1/tree/{id}?version=&framework=      full dependency tree
//
// Responses are JSON. Unknown packages return 404 with an error body;
// registry failures return 502.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"nugettree/pkg/deps"
)

// Server wires resolution into an HTTP router.
type Server struct {
	fetcher deps.Fetcher
	logger  *log.Logger
}

// New creates a Server that resolves through fetcher and logs per-request
// lines to logger.
func New(fetcher deps.Fetcher, logger *log.Logger) *Server {
	return &Server{fetcher: fetcher, logger: logger}
}

// Router builds the chi router with all routes and middleware registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/package/{id}", s.handlePackage)
	r.Get("/v1/tree/{id}", s.handleTree)

	return r
}

// requestLogger tags each request with a uuid and logs method, path, status
// and duration once the handler returns.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
