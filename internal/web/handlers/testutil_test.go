package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/facekiosk/facekiosk/internal/kiosk"
	"github.com/facekiosk/facekiosk/internal/recognizer"
	"github.com/facekiosk/facekiosk/internal/store"
	"github.com/facekiosk/facekiosk/internal/webhook"
)

// fakeProvider returns a canned verdict without any network traffic.
type fakeProvider struct {
	result *recognizer.Result
	err    error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Identify(ctx context.Context, probe []byte, refs []recognizer.Reference) (*recognizer.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *fakeProvider) GetUsage() *recognizer.Usage { return &recognizer.Usage{} }
func (p *fakeProvider) ResetUsage()                 {}

// fakeWebhook satisfies the orchestrator's sync surface in memory.
type fakeWebhook struct {
	remote *webhook.RemoteState
}

func (f *fakeWebhook) PushRecord(ctx context.Context, endpoint string, record store.AttendanceRecord) error {
	return nil
}

func (f *fakeWebhook) PushStaff(ctx context.Context, endpoint string, staff store.Staff) error {
	return nil
}

func (f *fakeWebhook) Pull(ctx context.Context, endpoint string) (*webhook.RemoteState, error) {
	if f.remote == nil {
		return &webhook.RemoteState{}, nil
	}
	return f.remote, nil
}

func (f *fakeWebhook) TestConnection(ctx context.Context, endpoint string) webhook.TestResult {
	return webhook.TestResult{OK: true, Message: "endpoint reachable"}
}

// testService builds an orchestrator over an in-memory store.
func testService(t *testing.T, provider *fakeProvider) (*kiosk.Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	rec := recognizer.NewClient(provider, 0.85, 20)
	svc := kiosk.New(st, rec, &fakeWebhook{}, kiosk.Options{})
	return svc, st
}

// testImageBase64 creates a small JPEG and returns it base64 encoded.
func testImageBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 5), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// jsonRequest creates a request with a JSON body.
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters.
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type.
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code.
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// registerStaff registers one member with a reference photo.
func registerStaff(t *testing.T, svc *kiosk.Service, id, name, role string) {
	t.Helper()
	_, err := svc.Register(context.Background(), store.Staff{
		ID:          id,
		Name:        name,
		Role:        role,
		PhotoBase64: testImageBase64(t),
	})
	if err != nil {
		t.Fatalf("failed to register staff %s: %v", id, err)
	}
}
