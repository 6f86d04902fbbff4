// Package server provides the HTTP API, live game feed and camera preview.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayusman/handrps/internal/store"
)

// MatchControl starts matches on demand. *app.App implements it.
type MatchControl interface {
	Restart() error
	Running() bool
}

// FrameFeed supplies the latest camera image as JPEG. *capture.Preview implements it.
type FrameFeed interface {
	Latest() ([]byte, uint64)
}

// Config holds the server configuration. Every field is optional; routes
// whose dependency is missing are not registered, except POST /api/matches
// which answers 503.
type Config struct {
	StaticDir string
	Store     *store.Store
	Matches   MatchControl
	Feed      FrameFeed
	Hub       *Hub
}

// Server represents the HTTP server for the handrps application.
type Server struct {
	config Config
	router chi.Router
	logger *log.Logger
	start  time.Time
	http   *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		logger: log.New(os.Stderr, "[server] ", log.LstdFlags),
		start:  time.Now(),
	}
	s.http = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/matches", s.handleStartMatch)

	if s.config.Store != nil {
		h := &matchHandler{store: s.config.Store, logger: s.logger}
		r.Get("/api/matches", h.list)
		r.Get("/api/matches/{id}", h.get)
		r.Get("/api/stats", h.stats)
	}

	if s.config.Feed != nil {
		r.Method(http.MethodGet, "/api/stream", NewStreamHandler(s.config.Feed))
	}

	if s.config.Hub != nil {
		r.Method(http.MethodGet, "/ws/game", s.config.Hub)
	}

	if s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type healthResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	MatchRunning *bool  `json:"match_running,omitempty"`
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.Matches != nil {
		running := s.config.Matches.Running()
		resp.MatchRunning = &running
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListenAndServe starts the HTTP server on the given address and blocks
// until it fails or Shutdown is called. After Shutdown it returns
// http.ErrServerClosed, even if Shutdown ran first.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Printf("Listening on %s", ln.Addr())
	return s.http.Serve(ln)
}

// Shutdown gracefully stops the server. It is safe to call concurrently
// with ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.Hub != nil {
		s.config.Hub.Close()
	}
	return s.http.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
