// Package api provides the REST surface of the flight log.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"flightlog/internal/apperr"
	"flightlog/internal/storage"
)

// Server serves the flight log API over a shared storage handle.
type Server struct {
	db   *storage.DB
	log  *zap.Logger
	port int
}

// Config holds server settings.
type Config struct {
	Port int
}

// NewServer creates an API server over the given storage handle.
func NewServer(db *storage.DB, log *zap.Logger, cfg Config) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{db: db, log: log, port: cfg.Port}
}

// Router returns the configured chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/flights", s.handleListFlights)
		r.Post("/flights", s.handleCreateFlight)
		r.Get("/flights/{id}", s.handleGetFlight)
		r.Patch("/flights/{id}", s.handleUpdateFlight)
		r.Delete("/flights/{id}", s.handleDeleteFlight)

		r.Get("/airports", s.handleSearchAirports)
		r.Get("/airlines", s.handleSearchAirlines)

		r.Get("/statistics", s.handleStatistics)

		r.Post("/login", s.handleLogin)
	})

	return r
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	addr := ":" + strconv.Itoa(s.port)
	s.log.Info("flight log API starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as a JSON error response. Service errors carry
// their own status code; anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := err.Error()
	if e, ok := apperr.From(err); ok {
		status = e.StatusCode
		detail = e.Detail
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Int("status", status), zap.String("detail", detail))
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperr.New(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
