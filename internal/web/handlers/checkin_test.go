package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facekiosk/facekiosk/internal/recognizer"
)

func TestCheckinAttempt_Success(t *testing.T) {
	provider := &fakeProvider{result: &recognizer.Result{
		Identified: true,
		StaffID:    "E1",
		StaffName:  "Ann",
		Confidence: 0.92,
	}}
	svc, _ := testService(t, provider)
	registerStaff(t, svc, "E1", "Ann", "barista")
	handler := NewCheckinHandler(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/checkin", map[string]string{
		"frame":     testImageBase64(t),
		"direction": "in",
	})
	rec := httptest.NewRecorder()
	handler.Attempt(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var result struct {
		Matched   bool   `json:"matched"`
		StaffName string `json:"staffName"`
		Duplicate bool   `json:"duplicate"`
	}
	parseJSONResponse(t, rec, &result)
	if !result.Matched || result.StaffName != "Ann" {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Duplicate {
		t.Error("first attempt must not be a duplicate")
	}
}

func TestCheckinAttempt_Unmatched(t *testing.T) {
	provider := &fakeProvider{result: &recognizer.Result{
		Identified: false,
		Message:    "no confident match",
	}}
	svc, _ := testService(t, provider)
	registerStaff(t, svc, "E1", "Ann", "barista")
	handler := NewCheckinHandler(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/checkin", map[string]string{
		"frame":     testImageBase64(t),
		"direction": "in",
	})
	rec := httptest.NewRecorder()
	handler.Attempt(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var result struct {
		Matched bool   `json:"matched"`
		Message string `json:"message"`
	}
	parseJSONResponse(t, rec, &result)
	if result.Matched {
		t.Error("expected an unmatched verdict")
	}
}

func TestCheckinAttempt_BadRequests(t *testing.T) {
	svc, _ := testService(t, &fakeProvider{})
	handler := NewCheckinHandler(svc)

	cases := []struct {
		name string
		body any
	}{
		{"bad frame encoding", map[string]string{"frame": "%%%", "direction": "in"}},
		{"bad direction", map[string]string{"frame": testImageBase64(t), "direction": "up"}},
		{"empty frame", map[string]string{"frame": "", "direction": "in"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/v1/checkin", tc.body)
			rec := httptest.NewRecorder()
			handler.Attempt(rec, req)
			assertStatusCode(t, rec, http.StatusBadRequest)
		})
	}
}

func TestCheckinAttempt_NoCredentials(t *testing.T) {
	provider := &fakeProvider{err: recognizer.ErrNoCredentials}
	svc, _ := testService(t, provider)
	registerStaff(t, svc, "E1", "Ann", "barista")
	handler := NewCheckinHandler(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/checkin", map[string]string{
		"frame":     testImageBase64(t),
		"direction": "in",
	})
	rec := httptest.NewRecorder()
	handler.Attempt(rec, req)

	assertStatusCode(t, rec, http.StatusServiceUnavailable)
}

func TestCheckinState(t *testing.T) {
	svc, _ := testService(t, &fakeProvider{})
	handler := NewCheckinHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	rec := httptest.NewRecorder()
	handler.State(rec, req)

	assertStatusCode(t, rec, http.StatusOK)
	var result struct {
		State string `json:"state"`
	}
	parseJSONResponse(t, rec, &result)
	if result.State != "idle" {
		t.Errorf("expected idle state, got %q", result.State)
	}
}
