package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/facekiosk/facekiosk/internal/kiosk"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondKioskError maps orchestrator error categories to HTTP statuses:
// validation 400, configuration 503, transient and data problems 502.
func respondKioskError(w http.ResponseWriter, err error) {
	var kerr *kiosk.Error
	if !errors.As(err, &kerr) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusInternalServerError
	switch kerr.Category {
	case kiosk.CategoryValidation:
		status = http.StatusBadRequest
	case kiosk.CategoryConfig:
		status = http.StatusServiceUnavailable
	case kiosk.CategoryTransient, kiosk.CategoryData:
		status = http.StatusBadGateway
	}
	respondError(w, status, kerr.Message)
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
