package handlers

import (
	"net/http"

	"github.com/facekiosk/facekiosk/internal/kiosk"
)

// SyncHandler handles the manual sync endpoint.
type SyncHandler struct {
	kiosk *kiosk.Service
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(svc *kiosk.Service) *SyncHandler {
	return &SyncHandler{kiosk: svc}
}

// Trigger runs one pull-and-merge round trip immediately.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	report, err := h.kiosk.Sync(r.Context())
	if err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
