package handlers

import (
	"net/http"
	"strconv"

	"github.com/facekiosk/facekiosk/internal/kiosk"
	"github.com/facekiosk/facekiosk/internal/store"
)

// HistoryHandler handles attendance record endpoints.
type HistoryHandler struct {
	kiosk *kiosk.Service
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(svc *kiosk.Service) *HistoryHandler {
	return &HistoryHandler{kiosk: svc}
}

// List returns attendance records, most recent first. Optional query
// parameters: staffId, date (2006-01-02), limit.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.kiosk.History(r.Context())
	if err != nil {
		respondKioskError(w, err)
		return
	}

	staffID := r.URL.Query().Get("staffId")
	date := r.URL.Query().Get("date")
	if staffID != "" || date != "" {
		filtered := make([]store.AttendanceRecord, 0, len(records))
		for _, rec := range records {
			if staffID != "" && rec.StaffID != staffID {
				continue
			}
			if date != "" && rec.Date != date {
				continue
			}
			filtered = append(filtered, rec)
		}
		records = filtered
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(records) {
			records = records[:limit]
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{"records": records})
}
