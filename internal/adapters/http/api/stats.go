package api

import (
	"net/http"
)

// StatsProvider reports point-in-time service counters.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
	epoch    EpochProvider
}

// NewStatsHandler creates a stats handler. A nil provider serves an empty object.
func NewStatsHandler(provider StatsProvider, epoch EpochProvider) *StatsHandler {
	return &StatsHandler{provider: provider, epoch: epoch}
}

// HandleStats writes the provider's snapshot. Counters change on every
// request, so intermediaries must not cache the reply.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeNotFound(w)
		return
	}

	stats := map[string]interface{}{}
	if h.provider != nil {
		if s := h.provider.GetStats(); s != nil {
			stats = s
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	if h.epoch != nil {
		writeEpoch(w, h.epoch.Epoch())
	}
	writeJSON(w, http.StatusOK, stats)
}
