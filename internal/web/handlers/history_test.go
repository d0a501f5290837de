package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facekiosk/facekiosk/internal/store"
)

func seedHistory(t *testing.T, st *store.MemoryStore) {
	t.Helper()
	records := []store.AttendanceRecord{
		{ID: "3", StaffID: "E2", StaffName: "Bob", Timestamp: "2026-03-02T11:00:00Z", Date: "2026-03-02", Direction: "out"},
		{ID: "2", StaffID: "E1", StaffName: "Ann", Timestamp: "2026-03-02T09:00:00Z", Date: "2026-03-02", Direction: "in"},
		{ID: "1", StaffID: "E1", StaffName: "Ann", Timestamp: "2026-03-01T09:00:00Z", Date: "2026-03-01", Direction: "in"},
	}
	if err := st.SaveHistory(context.Background(), records); err != nil {
		t.Fatalf("failed to seed history: %v", err)
	}
}

func TestHistoryList(t *testing.T) {
	svc, st := testService(t, &fakeProvider{})
	seedHistory(t, st)
	handler := NewHistoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	assertStatusCode(t, rec, http.StatusOK)

	var result struct {
		Records []store.AttendanceRecord `json:"records"`
	}
	parseJSONResponse(t, rec, &result)
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}
	if result.Records[0].ID != "3" {
		t.Errorf("expected newest record first, got %s", result.Records[0].ID)
	}
}

func TestHistoryList_Filters(t *testing.T) {
	svc, st := testService(t, &fakeProvider{})
	seedHistory(t, st)
	handler := NewHistoryHandler(svc)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"by staff", "?staffId=E1", 2},
		{"by date", "?date=2026-03-02", 2},
		{"by staff and date", "?staffId=E1&date=2026-03-02", 1},
		{"limit", "?limit=1", 1},
		{"no matches", "?staffId=E9", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/history"+tc.query, nil)
			rec := httptest.NewRecorder()
			handler.List(rec, req)
			assertStatusCode(t, rec, http.StatusOK)

			var result struct {
				Records []store.AttendanceRecord `json:"records"`
			}
			parseJSONResponse(t, rec, &result)
			if len(result.Records) != tc.want {
				t.Errorf("expected %d records, got %d", tc.want, len(result.Records))
			}
		})
	}
}

func TestHistoryList_BadLimit(t *testing.T) {
	svc, _ := testService(t, &fakeProvider{})
	handler := NewHistoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=abc", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)
	assertStatusCode(t, rec, http.StatusBadRequest)
}
