// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/okian/tastesearch/internal/domain/model"
	"github.com/okian/tastesearch/pkg/logger"
)

// EpochHeader carries the cache generation a response was served under.
const EpochHeader = "X-Catalog-Epoch"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SearchWithEpoch ranks the catalog for q and reports the cache
	// generation the results belong to.
	SearchWithEpoch(ctx context.Context, q model.Query) ([]model.SearchResult, uint64, error)
	// AddArtistWithEpoch appends artist to genre or reports a conflict.
	// On success it returns the generation the mutation produced.
	AddArtistWithEpoch(ctx context.Context, genre, artist string) (uint64, error)
	// Epoch returns the current cache generation.
	Epoch() uint64
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	searchHandler *SearchHandler
	artistHandler *ArtistHandler
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, l logger.Logger) *Server {
	if l == nil {
		l = logger.Nop()
	}
	return &Server{
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(statsProvider, deps),
		searchHandler: NewSearchHandler(deps, l),
		artistHandler: NewArtistHandler(deps, l),
		logger:        l,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/artist", MetricsMiddleware(s.artistHandler.HandlePostArtist, "artist"))
	mux.HandleFunc("/", MetricsMiddleware(handleNotFound, "not_found"))
}

// Handler returns mux wrapped in the request-scoped middleware.
func (s *Server) Handler(mux http.Handler) http.Handler {
	return RequestIDMiddleware(AccessLogMiddleware(mux, s.logger))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// messageResponse is the success envelope shared by every business route.
type messageResponse struct {
	Message any `json:"message"`
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

func writeEpoch(w http.ResponseWriter, epoch uint64) {
	w.Header().Set(EpochHeader, strconv.FormatUint(epoch, 10))
}

// writeNotFound answers unknown paths and unsupported methods alike.
func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "Not found"})
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeNotFound(w)
}
