// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/benchmatrix/internal/adapters/repository"
	service "github.com/okian/benchmatrix/internal/app"
	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/internal/domain/views"
	"github.com/okian/benchmatrix/internal/ingest"
	"github.com/okian/benchmatrix/pkg/logger"
)

const defaultMaxLimit = 500

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	ModelReader
	BenchmarkReader
	Reloader
	StatsProvider
}

// ModelReader exposes model lookups and the polar chart views.
type ModelReader interface {
	Models(ctx context.Context, limit int) ([]*model.ModelRecord, error)
	Model(ctx context.Context, id string) (service.ModelDetail, error)
	Polar(ctx context.Context, id string) (views.PolarChart, error)
	TopModels(ctx context.Context, n int) ([]views.ModelOption, error)
}

// BenchmarkReader exposes the bar chart views.
type BenchmarkReader interface {
	Benchmarks(ctx context.Context) ([]views.BenchmarkOption, error)
	Bar(ctx context.Context, id string, order views.SortOrder, limit int) (views.BarChart, error)
}

// Reloader runs a fresh ingestion pass.
type Reloader interface {
	Reload(ctx context.Context) (ingest.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	modelsHandler    *ModelsHandler
	benchmarkHandler *BenchmarksHandler
	reloadHandler    *ReloadHandler
	log              logger.Logger
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// limit query parameter of GET /models; a non-positive value uses 500.
func NewServer(deps Dependencies, maxLimit int) *Server {
	if maxLimit <= 0 {
		maxLimit = defaultMaxLimit
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		modelsHandler:    NewModelsHandler(deps, maxLimit),
		benchmarkHandler: NewBenchmarksHandler(deps),
		reloadHandler:    NewReloadHandler(deps),
		log:              logger.Named("http"),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /models", MetricsMiddleware(s.modelsHandler.HandleList, "models"))
	mux.HandleFunc("GET /models/top", MetricsMiddleware(s.modelsHandler.HandleTop, "models_top"))
	mux.HandleFunc("GET /models/{id}", MetricsMiddleware(s.modelsHandler.HandleGet, "model"))
	mux.HandleFunc("GET /models/{id}/polar", MetricsMiddleware(s.modelsHandler.HandlePolar, "polar"))
	mux.HandleFunc("GET /benchmarks", MetricsMiddleware(s.benchmarkHandler.HandleList, "benchmarks"))
	mux.HandleFunc("GET /benchmarks/{id}/bar", MetricsMiddleware(s.benchmarkHandler.HandleBar, "bar"))
	mux.HandleFunc("POST /reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
}

// Handler returns a mux with every route registered, wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return LoggingMiddleware(mux, s.log)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream sentinel errors to a status code.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrLimitExceeded):
		writeError(w, http.StatusBadRequest, "limit_exceeded", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, views.ErrUnknownSort),
		errors.Is(err, views.ErrInvalidLimit),
		errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNoSnapshot), errors.Is(err, service.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, service.ErrReloadRunning):
		writeError(w, http.StatusConflict, "reload_running", err)
	case errors.Is(err, ingest.ErrNoSourcesSucceeded):
		writeError(w, http.StatusBadGateway, "sources_failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// intParam reads an optional non-negative integer query parameter; def is
// returned when the parameter is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ErrBadRequest
	}
	return n, nil
}
