package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/pipeline"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// MapState is the application state served by the API.
type MapState interface {
	ReadinessChecker
	View() pipeline.View
	Filter() pipeline.Filter
	SetFilter(f pipeline.Filter) pipeline.View
	Highlight(lng5, lat5 float64) (pipeline.Highlight, bool)
	Reload(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and the map data API.
type Server struct {
	httpServer *http.Server
	state      MapState
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the health routes and /api/*.
func NewServer(addr string, state MapState, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		state:  state,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(state))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /api/points", s.layer(func(v pipeline.View) any { return v.Points }))
	mux.HandleFunc("GET /api/routes", s.layer(func(v pipeline.View) any { return v.Routes }))
	mux.HandleFunc("GET /api/cities", s.layer(func(v pipeline.View) any { return v.Cities }))
	mux.HandleFunc("GET /api/countries", s.layer(func(v pipeline.View) any {
		return map[string]any{"countries": v.Countries, "filter": v.CountryFilter}
	}))
	mux.HandleFunc("GET /api/metrics", s.layer(func(v pipeline.View) any { return v.Metrics }))
	mux.HandleFunc("GET /api/achievements", s.layer(func(v pipeline.View) any {
		return map[string]any{
			"earned":       v.Earned,
			"total":        len(domain.Catalog()),
			"achievements": v.Achievements,
		}
	}))
	mux.HandleFunc("GET /api/highlight", s.handleHighlight)
	mux.HandleFunc("GET /api/filter", s.handleGetFilter)
	mux.HandleFunc("PUT /api/filter", s.handlePutFilter)
	mux.HandleFunc("POST /api/reload", s.handleReload)

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

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.View())
}

// layer serves one slice of the current view.
func (s *Server) layer(pick func(pipeline.View) any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, pick(s.state.View()))
	}
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lng5, errLng := strconv.ParseFloat(q.Get("lng5"), 64)
	lat5, errLat := strconv.ParseFloat(q.Get("lat5"), 64)
	if errLng != nil || errLat != nil {
		writeError(w, http.StatusBadRequest, errors.New("lng5 and lat5 must be numbers"))
		return
	}

	h, ok := s.state.Highlight(lng5, lat5)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no record at this point"))
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleGetFilter(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Filter())
}

type filterRequest struct {
	Process  string `json:"process"`
	MineOnly bool   `json:"mineOnly"`
}

func (s *Server) handlePutFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	f, err := pipeline.ParseFilter(req.Process, req.MineOnly)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view := s.state.SetFilter(f)
	s.logger.Debug("filter changed", "process", f.Process, "mine_only", f.MineOnly, "records", view.Records)
	writeJSON(w, http.StatusOK, map[string]any{
		"filter":  view.Filter,
		"title":   view.Title,
		"records": view.Records,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.state.Reload(r.Context()); err != nil {
		s.logger.Error("reload failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	view := s.state.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "reloaded",
		"records":  view.Records,
		"loadedAt": view.LoadedAt,
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
