package handlers

import (
	"net/http"

	"github.com/facekiosk/facekiosk/internal/kiosk"
)

// StatsHandler handles the dashboard summary endpoint.
type StatsHandler struct {
	kiosk *kiosk.Service
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *kiosk.Service) *StatsHandler {
	return &StatsHandler{kiosk: svc}
}

// Get returns counters over the local dataset.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.kiosk.DashboardStats(r.Context())
	if err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
