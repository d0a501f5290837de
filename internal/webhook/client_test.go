package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/facekiosk/facekiosk/internal/store"
)

func testClient() *Client {
	c := NewClient()
	c.skipValidation = true
	return c
}

func TestValidateURL_Valid(t *testing.T) {
	err := ValidateURL("https://script.google.com/macros/s/AKfycb123/exec")
	if err != nil {
		t.Errorf("expected valid URL, got %v", err)
	}
}

func TestValidateURL_Invalid(t *testing.T) {
	cases := []string{
		"",
		"not a url at all ://",
		"http://script.google.com/macros/s/abc/exec",      // not https
		"https://example.com/macros/s/abc/exec",           // wrong host
		"https://script.google.com/s/abc/exec",            // missing /macros/
		"https://script.google.com/macros/s/abc/dev",      // wrong suffix
		"https://script.google.com/macros/s/abc/exec.php", // wrong suffix
	}

	for _, raw := range cases {
		if err := ValidateURL(raw); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestTestConnection_MalformedURLSkipsNetwork(t *testing.T) {
	// Scenario: endpoint misconfigured as a non-script URL.
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := NewClient() // validation enabled
	result := c.TestConnection(context.Background(), server.URL)

	if result.OK {
		t.Error("expected ok=false for invalid URL shape")
	}
	if result.Message == "" {
		t.Error("expected a message explaining the invalid URL")
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call for invalid URL, got %d", calls.Load())
	}
}

func TestTestConnection_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "test" {
			t.Errorf("expected action=test, got %q", r.URL.Query().Get("action"))
		}
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	result := testClient().TestConnection(context.Background(), server.URL)

	if !result.OK {
		t.Errorf("expected ok=true, got %+v", result)
	}
}

func TestTestConnection_WrongResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>Sign in</html>"))
	}))
	defer server.Close()

	result := testClient().TestConnection(context.Background(), server.URL)

	if result.OK {
		t.Error("expected ok=false for a non-OK body")
	}
}

func TestTestConnection_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	result := testClient().TestConnection(context.Background(), server.URL)

	if result.OK {
		t.Error("expected ok=false for unreachable endpoint")
	}
}

func TestPull_ParsesState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "get_data" {
			t.Errorf("expected action=get_data, got %q", r.URL.Query().Get("action"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"history": []map[string]any{
				{"id": "r1", "staffId": "E1", "staffName": "Ann", "timestamp": "2026-08-31T09:00:00+02:00", "direction": "in"},
			},
			"staff": []map[string]any{
				{"staffId": "E1", "staffName": "Ann", "role": "Engineer", "extraBackendField": 42},
			},
		})
	}))
	defer server.Close()

	state, err := testClient().Pull(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}

	if len(state.History) != 1 || state.History[0].ID != "r1" {
		t.Errorf("unexpected history: %+v", state.History)
	}
	// Unknown extra fields from the backend are tolerated.
	if len(state.Staff) != 1 || state.Staff[0].ID != "E1" {
		t.Errorf("unexpected staff: %+v", state.Staff)
	}
}

func TestPull_HTMLErrorPage(t *testing.T) {
	// Scenario: misconfigured endpoint answers with an HTML error page.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>Authorization required</body></html>"))
	}))
	defer server.Close()

	state, err := testClient().Pull(context.Background(), server.URL)
	if err == nil {
		t.Error("expected error for HTML reply")
	}
	if state != nil {
		t.Errorf("expected nil state, got %+v", state)
	}
}

func TestPull_MissingArraysAreEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	state, err := testClient().Pull(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if len(state.History) != 0 || len(state.Staff) != 0 {
		t.Errorf("expected empty state, got %+v", state)
	}
}

func TestPull_SkipsMalformedRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"history": [
				{"id": "r1", "staffId": "E1", "timestamp": "2026-08-31T09:00:00+02:00"},
				"not an object",
				{"staffId": "missing-record-id"}
			],
			"staff": [
				{"staffId": "E1", "staffName": "Ann"},
				12345
			]
		}`))
	}))
	defer server.Close()

	state, err := testClient().Pull(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}

	if len(state.History) != 1 || state.History[0].ID != "r1" {
		t.Errorf("expected one valid record, got %+v", state.History)
	}
	if len(state.Staff) != 1 {
		t.Errorf("expected one valid staff entry, got %+v", state.Staff)
	}
}

func TestPull_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := testClient().Pull(context.Background(), server.URL); err == nil {
		t.Error("expected error for 500 status")
	}
}

func TestPushRecord_SendsEnvelope(t *testing.T) {
	var got envelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode push body: %v", err)
		}
	}))
	defer server.Close()

	record := store.AttendanceRecord{ID: "r1", StaffID: "E1", Direction: store.DirectionIn}
	if err := testClient().PushRecord(context.Background(), server.URL, record); err != nil {
		t.Fatalf("PushRecord failed: %v", err)
	}

	if got.Action != "add_record" {
		t.Errorf("expected action add_record, got %q", got.Action)
	}
}

func TestPushStaff_SendsEnvelope(t *testing.T) {
	var got envelope
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer server.Close()

	staff := store.Staff{ID: "E1", Name: "Ann"}
	if err := testClient().PushStaff(context.Background(), server.URL, staff); err != nil {
		t.Fatalf("PushStaff failed: %v", err)
	}

	if got.Action != "add_staff" {
		t.Errorf("expected action add_staff, got %q", got.Action)
	}
}

func TestPush_InvalidURLFailsFast(t *testing.T) {
	c := NewClient()
	err := c.PushRecord(context.Background(), "https://example.com/x", store.AttendanceRecord{ID: "r1"})
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}
