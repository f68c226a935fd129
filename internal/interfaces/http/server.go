// Package http exposes the scoring, comparison, chart, and property
// storage operations over a JSON API.
package http

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/righthome/righthome/internal/application"
	"github.com/righthome/righthome/internal/config"
	"github.com/righthome/righthome/internal/persistence"
	"github.com/righthome/righthome/internal/stream"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Server is the righthome HTTP server.
type Server struct {
	router   *mux.Router
	server   *http.Server
	handlers *Handlers
	metrics  *MetricsRegistry
	hub      *stream.Hub
	addr     string
}

// ServerDeps carries the collaborators a server needs. Hub and Repo
// are optional; their endpoints return 503 when absent.
type ServerDeps struct {
	Recommender *application.Recommender
	Metrics     *MetricsRegistry
	Hub         *stream.Hub
	Repo        persistence.PropertiesRepo
}

// NewServer builds the server, verifies the port is free, and wires
// all routes.
func NewServer(cfg config.ServerConfig, deps ServerDeps) (*Server, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("port %d is busy or unavailable: %w", cfg.Port, err)
	}
	listener.Close()

	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetricsRegistry()
	}

	s := &Server{
		router:   mux.NewRouter(),
		handlers: NewHandlers(deps.Recommender, deps.Repo),
		metrics:  metrics,
		hub:      deps.Hub,
		addr:     addr,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  cfg.IdleTimeout.Duration,
	}

	return s, nil
}

// Router returns the configured router. Tests serve it directly.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.timeoutMiddleware)
	s.router.Use(s.corsMiddleware)

	// Streaming and metrics sit outside the JSON subrouter. Websocket
	// upgrades must not inherit the JSON content type.
	s.router.HandleFunc("/ws", s.serveWS).Methods("GET")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(s.jsonContentTypeMiddleware)

	api.HandleFunc("/health", s.handlers.Health).Methods("GET")

	api.HandleFunc("/score", s.handlers.Score).Methods("POST")
	api.HandleFunc("/compare", s.handlers.Compare).Methods("POST")
	api.HandleFunc("/recommendation", s.handlers.Recommendation).Methods("POST")

	api.HandleFunc("/charts/radar", s.handlers.ChartRadar).Methods("POST")
	api.HandleFunc("/charts/heatmap", s.handlers.ChartHeatmap).Methods("POST")
	api.HandleFunc("/charts/bar", s.handlers.ChartBar).Methods("POST")
	api.HandleFunc("/charts/timeline", s.handlers.ChartTimeline).Methods("POST")

	api.HandleFunc("/properties", s.handlers.CreateProperty).Methods("POST")
	api.HandleFunc("/properties", s.handlers.ListProperties).Methods("GET")
	api.HandleFunc("/properties/{id}", s.handlers.GetProperty).Methods("GET")
	api.HandleFunc("/properties/{id}", s.handlers.UpsertProperty).Methods("PUT")
	api.HandleFunc("/properties/{id}", s.handlers.DeleteProperty).Methods("DELETE")
	api.HandleFunc("/properties/{id}/score", s.handlers.ScoreStored).Methods("GET")

	s.router.NotFoundHandler = s.jsonContentTypeMiddleware(http.HandlerFunc(s.handlers.NotFound))
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, `{"error": "streaming not enabled"}`, http.StatusServiceUnavailable)
		return
	}
	stream.ServeWS(s.hub, w, r)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(requestIDKey).(string)

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)
		s.metrics.RequestDuration.WithLabelValues(
			r.Method, routePattern(r), fmt.Sprintf("%d", wrapper.statusCode),
		).Observe(duration.Seconds())

		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Websocket connections stay open past any request deadline.
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	log.Info().Str("addr", s.addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.addr
}

// routePattern returns the mux route template so metrics do not
// explode on path parameters.
func routePattern(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the logging wrapper.
func (rw *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}
