package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"

	"github.com/facekiosk/facekiosk/internal/kiosk"
)

// CheckinHandler handles the capture-and-identify endpoint.
type CheckinHandler struct {
	kiosk *kiosk.Service
}

// NewCheckinHandler creates a new check-in handler.
func NewCheckinHandler(svc *kiosk.Service) *CheckinHandler {
	return &CheckinHandler{kiosk: svc}
}

type checkinRequest struct {
	Frame     string `json:"frame"` // base64 JPEG from the browser canvas
	Direction string `json:"direction"`
}

// Attempt runs one recognition attempt against the uploaded frame.
func (h *CheckinHandler) Attempt(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	frame, err := base64.StdEncoding.DecodeString(req.Frame)
	if err != nil {
		respondError(w, http.StatusBadRequest, "frame is not valid base64")
		return
	}

	result, err := h.kiosk.CheckIn(r.Context(), frame, req.Direction)
	if err != nil {
		log.Printf("check-in failed: %v", err)
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// State reports the current state machine position and the last outcome so
// the frontend can render its banner after a reload.
func (h *CheckinHandler) State(w http.ResponseWriter, r *http.Request) {
	state, outcome := h.kiosk.State()
	respondJSON(w, http.StatusOK, map[string]any{
		"state":       state,
		"lastOutcome": outcome,
	})
}
