package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/tastesearch/pkg/metrics"
)

// EpochProvider exposes the current cache generation.
type EpochProvider interface {
	Epoch() uint64
}

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	epoch   EpochProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(epoch EpochProvider) *HealthHandler {
	return &HealthHandler{
		epoch:   epoch,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Epoch  uint64 `json:"epoch"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Epoch: h.epoch.Epoch()})
}

// HandleMetrics serves the custom Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
