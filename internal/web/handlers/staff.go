package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/facekiosk/facekiosk/internal/constants"
	"github.com/facekiosk/facekiosk/internal/kiosk"
	"github.com/facekiosk/facekiosk/internal/recognizer"
	"github.com/facekiosk/facekiosk/internal/store"
)

// StaffHandler handles roster management endpoints.
type StaffHandler struct {
	kiosk *kiosk.Service
}

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(svc *kiosk.Service) *StaffHandler {
	return &StaffHandler{kiosk: svc}
}

// List returns the registered roster. Reference photos are included so the
// admin view can render them.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.kiosk.Staff(r.Context())
	if err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"staff": staff})
}

type createStaffRequest struct {
	StaffID     string `json:"staffId"`
	StaffName   string `json:"staffName"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

// Create registers a new staff member.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	created, err := h.kiosk.Register(r.Context(), store.Staff{
		ID:          req.StaffID,
		Name:        req.StaffName,
		Role:        req.Role,
		Description: req.Description,
		PhotoBase64: req.Photo,
	})
	if err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Delete removes a staff member from the roster.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.kiosk.DeleteStaff(r.Context(), id); err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

type updatePhotoRequest struct {
	Photo    string `json:"photo"`
	CropX    int    `json:"cropX"`
	CropY    int    `json:"cropY"`
	CropSize int    `json:"cropSize"`
	Rotate   int    `json:"rotate"`
}

// UpdatePhoto replaces a member's reference photo. When crop parameters are
// present the photo is cropped and rotated server side before storing.
func (h *StaffHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Photo == "" {
		respondError(w, http.StatusBadRequest, "photo is required")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Photo)
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo is not valid base64")
		return
	}

	if req.CropSize > 0 {
		raw, err = recognizer.CropProfile(raw, req.CropX, req.CropY, req.CropSize, req.Rotate, constants.ProfilePhotoSize)
		if err != nil {
			respondError(w, http.StatusBadRequest, "could not crop photo: "+err.Error())
			return
		}
	}

	if err := h.kiosk.UpdateStaffPhoto(r.Context(), id, base64.StdEncoding.EncodeToString(raw)); err != nil {
		respondKioskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"updated": id})
}
