// Package web serves registry contents over HTTP for introspection.
package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/keyreg/internal/log"
	"github.com/zjrosen/keyreg/internal/presentation"
	"github.com/zjrosen/keyreg/internal/registry"
	"github.com/zjrosen/keyreg/internal/tracing"
	"github.com/zjrosen/keyreg/internal/web/middleware"
)

// RevisionHeader carries the snapshot revision a listing was rendered from.
const RevisionHeader = "X-Registry-Revision"

// Catalog is the set of registries the server exposes.
type Catalog interface {
	Names() []string
	Get(name string) (*registry.Registry, error)
}

// Options configures the server.
type Options struct {
	// BasePath mounts every route, e.g. "/registry". Empty or "/" mounts at
	// the root.
	BasePath string
	// Format is used when a request has no ?format= parameter.
	Format presentation.Format
	// Tracer opens a span per request when set.
	Tracer trace.Tracer
}

// Server is the read-only introspection endpoint.
type Server struct {
	catalog Catalog
	opts    Options
	router  *chi.Mux

	mu     sync.Mutex
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(catalog Catalog, opts Options) *Server {
	if opts.Format == "" {
		opts.Format = presentation.FormatJSON
	}
	opts.BasePath = strings.TrimSuffix(opts.BasePath, "/")

	s := &Server{
		catalog: catalog,
		opts:    opts,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(tracing.HTTPMiddleware(s.opts.Tracer))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	routes := func(r chi.Router) {
		r.Get("/", s.handleNames)
		r.Get("/{name}", s.handleListing)
		r.Get("/{name}/{key}", s.handleRecord)
	}

	if s.opts.BasePath == "" {
		routes(s.router)
		return
	}
	s.router.Route(s.opts.BasePath, routes)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests. It returns http.ErrServerClosed
// after Shutdown, including a Shutdown that happened before Start.
func (s *Server) Start(addr string) error {
	srv := s.httpServer()
	s.mu.Lock()
	srv.Addr = addr
	s.mu.Unlock()

	log.Info(log.CatHTTP, "starting server", "addr", addr, "base_path", s.opts.BasePath)
	return srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer().Shutdown(ctx)
}

func (s *Server) httpServer() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		s.server = &http.Server{
			Handler:           s.router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return s.server
}
