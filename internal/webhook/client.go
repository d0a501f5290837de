// Package webhook is the client side of the spreadsheet-backed script
// endpoint. The backend is an uncontrolled third party: push is optimistic
// fire-and-forget, and the periodic pull is the actual reconciliation path.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/facekiosk/facekiosk/internal/constants"
	"github.com/facekiosk/facekiosk/internal/store"
)

// Expected shape of a script endpoint URL.
const (
	scriptHost       = "script.google.com"
	scriptPathMark   = "/macros/"
	scriptPathSuffix = "/exec"
)

// ErrInvalidURL means the endpoint URL does not look like a script endpoint.
// No network call is made for such URLs.
var ErrInvalidURL = errors.New("webhook: invalid endpoint URL")

// Client talks to the configured script endpoint.
type Client struct {
	httpClient *http.Client

	// skipValidation bypasses the URL shape check so tests can point the
	// client at a local server.
	skipValidation bool
}

// NewClient creates a webhook client. Per-call timeouts come from contexts,
// so the underlying http.Client carries none.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// ValidateURL checks the endpoint URL by shape: https, the script hosting
// domain, and the expected path suffix.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be https", ErrInvalidURL)
	}
	if u.Host != scriptHost {
		return fmt.Errorf("%w: host must be %s", ErrInvalidURL, scriptHost)
	}
	if !strings.Contains(u.Path, scriptPathMark) || !strings.HasSuffix(u.Path, scriptPathSuffix) {
		return fmt.Errorf("%w: path must contain %s and end with %s", ErrInvalidURL, scriptPathMark, scriptPathSuffix)
	}
	return nil
}

// validate applies the URL shape check unless the client was built for
// tests.
func (c *Client) validate(endpoint string) error {
	if c.skipValidation {
		return nil
	}
	return ValidateURL(endpoint)
}

// TestResult classifies a connectivity check.
type TestResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// TestConnection validates the URL shape and performs a lightweight GET.
// A malformed URL is reported without any network traffic.
func (c *Client) TestConnection(ctx context.Context, endpoint string) TestResult {
	if err := c.validate(endpoint); err != nil {
		return TestResult{OK: false, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.WebhookTestTimeout)
	defer cancel()

	body, err := c.get(ctx, endpoint, "test")
	if err != nil {
		return TestResult{OK: false, Message: fmt.Sprintf("endpoint unreachable: %v", err)}
	}

	if strings.TrimSpace(string(body)) != "OK" {
		return TestResult{OK: false, Message: "endpoint reachable but did not answer the connectivity check"}
	}
	return TestResult{OK: true, Message: "endpoint reachable"}
}

// envelope is the POST payload the script expects.
type envelope struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

// PushRecord sends a new attendance record. Callers fire this on a
// goroutine; a failure degrades to "saved locally, not yet synced".
func (c *Client) PushRecord(ctx context.Context, endpoint string, record store.AttendanceRecord) error {
	return c.post(ctx, endpoint, envelope{Action: "add_record", Data: record})
}

// PushStaff sends a new identity.
func (c *Client) PushStaff(ctx context.Context, endpoint string, staff store.Staff) error {
	return c.post(ctx, endpoint, envelope{Action: "add_staff", Data: staff})
}

// RemoteState is the merged state held by the spreadsheet backend.
type RemoteState struct {
	History []store.AttendanceRecord
	Staff   []store.Staff
}

// Pull fetches the remote state. Any failure - network, non-200, an HTML
// error page instead of JSON - returns an error and no data; individually
// malformed records are skipped so one bad row cannot block the rest.
func (c *Client) Pull(ctx context.Context, endpoint string) (*RemoteState, error) {
	if err := c.validate(endpoint); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.WebhookPullTimeout)
	defer cancel()

	body, err := c.get(ctx, endpoint, "get_data")
	if err != nil {
		return nil, err
	}

	// Misconfigured endpoints commonly answer with an HTML error page.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("webhook: endpoint returned non-JSON data")
	}

	// Decode arrays element-wise; a backend schema hiccup in one row is
	// dropped, not propagated. Missing arrays are empty, not an error.
	var raw struct {
		History []json.RawMessage `json:"history"`
		Staff   []json.RawMessage `json:"staff"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("webhook: could not parse endpoint reply: %w", err)
	}

	state := &RemoteState{}
	for _, m := range raw.History {
		var r store.AttendanceRecord
		if err := json.Unmarshal(m, &r); err != nil || r.ID == "" {
			continue
		}
		state.History = append(state.History, r)
	}
	for _, m := range raw.Staff {
		var s store.Staff
		if err := json.Unmarshal(m, &s); err != nil || s.ID == "" {
			continue
		}
		state.Staff = append(state.Staff, s)
	}

	return state, nil
}

func (c *Client) get(ctx context.Context, endpoint, action string) ([]byte, error) {
	u := endpoint + "?action=" + url.QueryEscape(action)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload envelope) error {
	if err := c.validate(endpoint); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.WebhookPushTimeout)
	defer cancel()

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	// The script answers pushes inconsistently; the body is ignored and
	// only a hard HTTP failure counts as an error.
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push failed with status %d", resp.StatusCode)
	}
	return nil
}

// readErrorBody reads the response body for error messages.
// Returns empty string if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}
