package handler

import (
	"net/http"

	"github.com/parfold/parfold/internal/sim"
)

// StatsHandler serves a human-readable JSON snapshot of the simulation.
// Raw Prometheus metrics (counters, histograms) are available at /metrics
// via promhttp.Handler and are separate from this endpoint.
type StatsHandler struct {
	sim *sim.Simulation
}

func NewStatsHandler(s *sim.Simulation) *StatsHandler {
	return &StatsHandler{sim: s}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sim.Snapshot())
}
