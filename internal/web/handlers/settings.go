package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/facekiosk/facekiosk/internal/kiosk"
)

// SettingsHandler handles kiosk settings endpoints.
type SettingsHandler struct {
	kiosk *kiosk.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(svc *kiosk.Service) *SettingsHandler {
	return &SettingsHandler{kiosk: svc}
}

// Get returns the persisted settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.kiosk.Settings(r.Context())
	if err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

type updateSettingsRequest struct {
	WebhookURL string `json:"webhookUrl"`
}

// Update validates and persists new settings. An empty webhook URL
// disables remote sync.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := h.kiosk.SetWebhookURL(r.Context(), req.WebhookURL); err != nil {
		log.Printf("settings update rejected: %s", sanitizeForLog(req.WebhookURL))
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"webhookUrl": req.WebhookURL})
}

// Test runs a connectivity probe against the configured endpoint and
// reports the classification without failing the request.
func (h *SettingsHandler) Test(w http.ResponseWriter, r *http.Request) {
	result, err := h.kiosk.TestWebhook(r.Context())
	if err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
